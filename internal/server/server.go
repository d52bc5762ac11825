package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/api"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires the services and routes of the catalog. A nil redis client
// disables rate limiting.
func New(cfg *config.Config, db *gorm.DB, store storage.Storage, redisClient *redis.Client) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	router := gin.New()
	router.Use(logging.GinLogger(), logging.GinRecovery())
	if len(cfg.CORSOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORSOrigins))
	}

	// Uploaded images on local disk are served by the app itself
	if local, ok := store.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.MediaURL, "/") {
		router.Static(cfg.MediaURL, local.Root())
	}

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRecipeSubmissionRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitLimit)
	}

	api.RegisterRoutes(router, api.Deps{
		DB:            db,
		Auth:          service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL),
		Recipes:       service.NewRecipeService(db, store),
		Collections:   service.NewCollectionService(db),
		Storage:       store,
		Limiter:       limiter,
		PageSize:      cfg.PageSize,
		MaxUploadSize: cfg.MaxUploadSize,
		TokenTTL:      cfg.TokenTTL,
		SecureCookies: config.IsProduction(),
	})

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	logging.Info().Str("addr", s.http.Addr).Msg("Starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, waiting at most five seconds
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
