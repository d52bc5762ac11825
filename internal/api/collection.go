package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/pagination"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// CollectionHandler serves the collection list, detail and edit pages
type CollectionHandler struct {
	collections service.ICollectionService
	recipes     service.IRecipeService
	pageSize    int
}

func NewCollectionHandler(collections service.ICollectionService, recipes service.IRecipeService, pageSize int) *CollectionHandler {
	return &CollectionHandler{collections: collections, recipes: recipes, pageSize: pageSize}
}

func (h *CollectionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.ListCollections)

	protected := r.Group("")
	protected.Use(middleware.LoginRequired())
	{
		protected.GET("/create/", h.CreateForm)
		protected.POST("/create/", h.CreateCollection)
		protected.GET("/:id/", h.GetCollection)

		owned := protected.Group("/:id")
		owned.Use(middleware.CollectionOwnerRequired(h.collections))
		owned.GET("/edit/", h.EditForm)
		owned.POST("/edit/", h.UpdateCollection)
		owned.POST("/delete/", h.DeleteCollection)
	}
}

func (h *CollectionHandler) ListCollections(c *gin.Context) {
	ctx := c.Request.Context()
	params := filter.ParseCollectionParams(c.Request.URL.Query())
	viewer := middleware.CurrentUserID(c)

	page, err := h.collections.ListCollections(ctx, service.CollectionQuery{
		Params: params, Viewer: viewer, Page: c.Query("page"), PerPage: h.pageSize,
	})
	if err != nil {
		writeServiceError(c, err, "failed to list collections")
		return
	}
	count, err := h.collections.CountCollections(ctx)
	if err != nil {
		writeServiceError(c, err, "failed to count collections")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filter": params,
		"collections": pagination.Map(page, func(col models.RecipeCollection) CollectionView {
			return collectionView(col, viewer)
		}),
		"collection_count": count,
	})
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	collection, err := h.collections.GetCollection(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "failed to load collection")
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collectionView(*collection, middleware.CurrentUserID(c))})
}

func (h *CollectionHandler) CreateForm(c *gin.Context) {
	h.renderForm(c, forms.NewCollectionForm(nil), nil)
}

func (h *CollectionHandler) EditForm(c *gin.Context) {
	h.renderForm(c, forms.NewCollectionForm(c.MustGet(middleware.CollectionKey).(*models.RecipeCollection)), nil)
}

func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	collection, err := h.collections.CreateCollection(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		writeServiceError(c, err, "failed to create collection")
		return
	}
	c.Redirect(http.StatusFound, collectionURL(collection.ID))
}

func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	collection := c.MustGet(middleware.CollectionKey).(*models.RecipeCollection)
	in, ok := h.bind(c)
	if !ok {
		return
	}
	if err := h.collections.UpdateCollection(c.Request.Context(), collection, in); err != nil {
		writeServiceError(c, err, "failed to update collection")
		return
	}
	c.Redirect(http.StatusFound, collectionURL(collection.ID))
}

func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	collection := c.MustGet(middleware.CollectionKey).(*models.RecipeCollection)
	if err := h.collections.DeleteCollection(c.Request.Context(), collection); err != nil {
		writeServiceError(c, err, "failed to delete collection")
		return
	}
	c.Redirect(http.StatusFound, "/collections/")
}

// bind reads and cleans a collection submission. It writes the response
// itself and returns false when the form must be shown again.
func (h *CollectionHandler) bind(c *gin.Context) (forms.CollectionInput, bool) {
	d, err := forms.ParseData(c.Request, 1<<20)
	if err != nil {
		writeBodyError(c, err)
		return forms.CollectionInput{}, false
	}
	form, err := forms.BindCollectionForm(d)
	if err != nil {
		writeBodyError(c, err)
		return forms.CollectionInput{}, false
	}

	in, errs, err := form.Clean(func(ids []uuid.UUID) (map[uuid.UUID]bool, error) {
		return h.collections.ExistingRecipeIDs(c.Request.Context(), ids)
	})
	if err != nil {
		writeServiceError(c, err, "failed to validate collection")
		return in, false
	}
	if !errs.Empty() {
		h.renderForm(c, form, errs)
		return in, false
	}
	return in, true
}

func (h *CollectionHandler) renderForm(c *gin.Context, form forms.CollectionForm, errs forms.Errors) {
	recipes, err := h.recipes.ListAllRecipes(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "failed to list recipes")
		return
	}
	if form.Recipes == nil {
		form.Recipes = []string{}
	}

	view := newFormView(form, errs)
	view.RecipeChoices = make([]RecipeChoice, 0, len(recipes))
	for _, r := range recipes {
		view.RecipeChoices = append(view.RecipeChoices, RecipeChoice{Value: r.ID, Label: r.Title})
	}
	c.JSON(http.StatusOK, view)
}
