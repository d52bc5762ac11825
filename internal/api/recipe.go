package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/pagination"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/storage"
)

// RecipeHandler serves the recipe list, detail and edit pages
type RecipeHandler struct {
	recipes       service.IRecipeService
	storage       storage.Storage
	pageSize      int
	maxUploadSize int64
}

func NewRecipeHandler(recipes service.IRecipeService, store storage.Storage, pageSize int, maxUploadSize int64) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		storage:       store,
		pageSize:      pageSize,
		maxUploadSize: maxUploadSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(r *gin.RouterGroup, limiter *middleware.RateLimiter, maxBody int64) {
	r.GET("/", h.ListRecipes)

	protected := r.Group("")
	protected.Use(middleware.LoginRequired())
	{
		protected.GET("/create/", h.CreateForm)
		protected.POST("/create/", limiter.RateLimitMiddleware(), middleware.BodyLimit(maxBody), h.CreateRecipe)
		protected.GET("/:id/", h.GetRecipe)

		owned := protected.Group("/:id")
		owned.Use(middleware.RecipeOwnerRequired(h.recipes))
		owned.GET("/edit/", h.EditForm)
		owned.POST("/edit/", limiter.RateLimitMiddleware(), middleware.BodyLimit(maxBody), h.UpdateRecipe)
		owned.POST("/delete/", h.DeleteRecipe)
	}
}

// ListRecipes renders the featured and regular recipe streams, each
// filtered and paginated on its own page parameter
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	params := filter.ParseRecipeParams(c.Request.URL.Query())
	viewer := middleware.CurrentUserID(c)
	featured, regular := true, false

	featuredPage, err := h.recipes.ListRecipes(ctx, service.RecipeQuery{
		Params: params, Viewer: viewer, Featured: &featured, Page: c.Query("featured_page"), PerPage: h.pageSize,
	})
	if err != nil {
		writeServiceError(c, err, "failed to list recipes")
		return
	}
	regularPage, err := h.recipes.ListRecipes(ctx, service.RecipeQuery{
		Params: params, Viewer: viewer, Featured: &regular, Page: c.Query("page"), PerPage: h.pageSize,
	})
	if err != nil {
		writeServiceError(c, err, "failed to list recipes")
		return
	}
	authors, err := h.recipes.ListAuthors(ctx)
	if err != nil {
		writeServiceError(c, err, "failed to list authors")
		return
	}

	users := make([]UserView, 0, len(authors))
	for _, u := range authors {
		users = append(users, userView(u))
	}

	c.JSON(http.StatusOK, gin.H{
		"filter":           params,
		"featured_recipes": pagination.Map(featuredPage, recipeSummary),
		"recipes":          pagination.Map(regularPage, recipeSummary),
		"users":            users,
		"choices":          filterChoices(),
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "failed to load recipe")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipeDetail(recipe, h.storage, middleware.CurrentUserID(c))})
}

func (h *RecipeHandler) CreateForm(c *gin.Context) {
	h.renderForm(c, forms.NewRecipeForm(nil), nil,
		forms.NewIngredientFormSet(nil, extraRows),
		forms.NewImageFormSet(nil, extraRows, h.storage.URL))
}

func (h *RecipeHandler) EditForm(c *gin.Context) {
	recipe := c.MustGet(middleware.RecipeKey).(*models.Recipe)
	h.renderForm(c, forms.NewRecipeForm(recipe), nil,
		forms.NewIngredientFormSet(recipe.Ingredients, extraRows),
		forms.NewImageFormSet(recipe.Images, extraRows, h.storage.URL))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	h.submit(c, nil)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	h.submit(c, c.MustGet(middleware.RecipeKey).(*models.Recipe))
}

// submit validates the recipe form and both formsets and saves them together.
// Any invalid part re-renders the whole form without writing anything.
func (h *RecipeHandler) submit(c *gin.Context, existing *models.Recipe) {
	d, err := forms.ParseData(c.Request, h.maxUploadSize)
	if err != nil {
		writeBodyError(c, err)
		return
	}

	form, err := forms.BindRecipeForm(d)
	if err != nil {
		writeBodyError(c, err)
		return
	}
	ingredients, err := forms.BindIngredientFormSet(d)
	if err != nil {
		writeBodyError(c, err)
		return
	}
	images, err := forms.BindImageFormSet(d, h.maxUploadSize)
	if err != nil {
		writeBodyError(c, err)
		return
	}

	in, errs := form.Clean()
	ingredientsValid := ingredients.Validate()
	imagesValid := images.Validate()
	if !errs.Empty() || !ingredientsValid || !imagesValid {
		h.renderForm(c, form, errs, ingredients, images)
		return
	}

	recipe, err := h.recipes.SaveRecipe(c.Request.Context(), service.RecipeSubmission{
		Recipe:      existing,
		AuthorID:    middleware.CurrentUserID(c),
		Input:       in,
		Ingredients: ingredients,
		Images:      images,
	})
	var rowErr *service.RowError
	if errors.As(err, &rowErr) {
		switch rowErr.Formset {
		case forms.ImagePrefix:
			images.AddRowError(rowErr.Index, rowErr.Field, rowErr.Message)
		default:
			ingredients.AddRowError(rowErr.Index, rowErr.Field, rowErr.Message)
		}
		h.renderForm(c, form, errs, ingredients, images)
		return
	}
	if err != nil {
		writeServiceError(c, err, "failed to save recipe")
		return
	}

	c.Redirect(http.StatusFound, recipeURL(recipe.ID))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipe := c.MustGet(middleware.RecipeKey).(*models.Recipe)
	if err := h.recipes.DeleteRecipe(c.Request.Context(), recipe); err != nil {
		writeServiceError(c, err, "failed to delete recipe")
		return
	}
	c.Redirect(http.StatusFound, "/recipes/")
}

func (h *RecipeHandler) renderForm(c *gin.Context, form forms.RecipeForm, errs forms.Errors, ingredients *forms.IngredientFormSet, images *forms.ImageFormSet) {
	view := newFormView(form, errs)
	ingredientsView := ingredients.View()
	imagesView := images.View()
	choices := formChoices()
	view.Ingredients = &ingredientsView
	view.Images = &imagesView
	view.Choices = &choices
	c.JSON(http.StatusOK, view)
}
