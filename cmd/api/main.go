package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/server"
	"github.com/pageza/recipe-catalog/backend/internal/storage"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if cfg.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			logging.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize media storage")
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logging.Warn().Err(err).Msg("Redis unavailable, recipe submissions are not rate limited")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv := server.New(cfg, db, store, redisClient)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			logging.Fatal().Err(err).Msg("Server error")
		}
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("Received signal")
	}

	logging.Info().Msg("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("Server shutdown error")
	}
	logging.Info().Msg("Server stopped")
}
