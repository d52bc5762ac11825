package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// homeFeatured is the number of featured recipes on the home page
const homeFeatured = 3

type HomeHandler struct {
	recipes     service.IRecipeService
	collections service.ICollectionService
}

func NewHomeHandler(recipes service.IRecipeService, collections service.ICollectionService) *HomeHandler {
	return &HomeHandler{recipes: recipes, collections: collections}
}

// Home shows the latest featured recipes and the catalog totals
func (h *HomeHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	featured, err := h.recipes.FeaturedRecipes(ctx, homeFeatured)
	if err != nil {
		writeServiceError(c, err, "failed to load featured recipes")
		return
	}
	recipeCount, err := h.recipes.CountRecipes(ctx)
	if err != nil {
		writeServiceError(c, err, "failed to count recipes")
		return
	}
	collectionCount, err := h.collections.CountCollections(ctx)
	if err != nil {
		writeServiceError(c, err, "failed to count collections")
		return
	}

	views := make([]RecipeSummary, 0, len(featured))
	for _, r := range featured {
		views = append(views, recipeSummary(r))
	}

	var user interface{}
	if id := middleware.CurrentUserID(c); id != uuid.Nil {
		user = UserView{ID: id, Username: middleware.CurrentUsername(c)}
	}

	c.JSON(http.StatusOK, gin.H{
		"featured_recipes": views,
		"recipe_count":     recipeCount,
		"collection_count": collectionCount,
		"user":             user,
	})
}
