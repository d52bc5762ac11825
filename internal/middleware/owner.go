package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// Context keys of the records loaded by the ownership guards
const (
	RecipeKey     = "recipe"
	CollectionKey = "collection"
)

// RecipeLoader loads a recipe for the ownership guard
type RecipeLoader interface {
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
}

// CollectionLoader loads a collection for the ownership guard
type CollectionLoader interface {
	GetCollection(ctx context.Context, id uuid.UUID) (*models.RecipeCollection, error)
}

// RecipeOwnerRequired loads the recipe named by :id and lets only its author
// through
func RecipeOwnerRequired(loader RecipeLoader) gin.HandlerFunc {
	return ownerRequired(RecipeKey, func(c *gin.Context, id uuid.UUID) (interface{}, uuid.UUID, error) {
		recipe, err := loader.GetRecipe(c.Request.Context(), id)
		if err != nil {
			return nil, uuid.Nil, err
		}
		return recipe, recipe.AuthorID, nil
	})
}

// CollectionOwnerRequired loads the collection named by :id and lets only its
// owner through
func CollectionOwnerRequired(loader CollectionLoader) gin.HandlerFunc {
	return ownerRequired(CollectionKey, func(c *gin.Context, id uuid.UUID) (interface{}, uuid.UUID, error) {
		collection, err := loader.GetCollection(c.Request.Context(), id)
		if err != nil {
			return nil, uuid.Nil, err
		}
		return collection, collection.UserID, nil
	})
}

type ownedLoader func(c *gin.Context, id uuid.UUID) (record interface{}, owner uuid.UUID, err error)

func ownerRequired(key string, load ownedLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": key + " not found"})
			return
		}

		record, owner, err := load(c, id)
		if err != nil {
			if se, ok := service.AsServiceError(err); ok && se.Code == service.ErrorCodeNotFound {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": key + " not found"})
				return
			}
			logging.Error().Err(err).Str(key+"_id", id.String()).Msg("Failed to load record for ownership check")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		if owner != CurrentUserID(c) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(key, record)
		c.Next()
	}
}
