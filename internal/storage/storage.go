// Package storage persists uploaded recipe images on local disk or S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/config"
)

// ErrInvalidKey reports a key that escapes the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// Storage saves and removes objects addressed by a slash separated key
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New returns the backend selected by cfg.StorageBackend
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal:
		return NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
	case config.StorageS3:
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Storage(s3cfg), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}

// ImageKey builds a fresh key for an uploaded image, keeping its extension
func ImageKey(ext string) string {
	return "recipe_images/" + uuid.NewString() + strings.ToLower(ext)
}

// cleanKey rejects absolute keys and keys containing parent references
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
