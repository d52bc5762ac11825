package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/storage"
)

// extraRows is the number of blank rows a formset offers
const extraRows = 1

// Deps are the collaborators of the HTTP handlers
type Deps struct {
	DB            *gorm.DB
	Auth          service.IAuthService
	Recipes       service.IRecipeService
	Collections   service.ICollectionService
	Storage       storage.Storage
	Limiter       *middleware.RateLimiter
	PageSize      int
	MaxUploadSize int64
	TokenTTL      time.Duration
	SecureCookies bool
}

// maxBody bounds a recipe submission: a handful of images plus the fields
func (d Deps) maxBody() int64 {
	return 10*d.MaxUploadSize + 1<<20
}

// RegisterRoutes registers all routes
func RegisterRoutes(router *gin.Engine, d Deps) {
	router.Use(middleware.Authenticate(d.Auth))

	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck(d.DB))

	home := NewHomeHandler(d.Recipes, d.Collections)
	router.GET("/", home.Home)

	NewAuthHandler(d.Auth, d.TokenTTL, d.SecureCookies).RegisterRoutes(router.Group("/accounts"))
	NewRecipeHandler(d.Recipes, d.Storage, d.PageSize, d.MaxUploadSize).RegisterRoutes(router.Group("/recipes"), d.Limiter, d.maxBody())
	NewCollectionHandler(d.Collections, d.Recipes, d.PageSize).RegisterRoutes(router.Group("/collections"))
}

// HealthCheck returns the health status of the service and its database
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "ok",
		})
	}
}

// parseID reads the :id parameter, answering 404 when it is not a uuid
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}
