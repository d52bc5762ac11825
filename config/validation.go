package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// secretHint names where a missing sensitive value is expected to come from
func secretHint(env Environment, secret, envVar string) string {
	switch env {
	case CI:
		return envVar + " environment variable is required in CI environment"
	case Production:
		return secret + " secret is required"
	default:
		return secret + " secret or " + envVar + " environment variable is required"
	}
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs []ValidationError

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWTSecret", secretHint(env, "jwt_secret", "JWT_SECRET")})
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		required := map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_PORT": cfg.DBPort,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		}
		for _, name := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_NAME"} {
			if required[name] == "" {
				errs = append(errs, ValidationError{name, "required environment variable is not set"})
			}
		}
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DBPassword", secretHint(env, "db_password", "DB_PASSWORD")})
		}
	case DriverSQLite:
		if env == Production {
			errs = append(errs, ValidationError{"DB_DRIVER", "sqlite is not supported in production"})
		}
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "required environment variable is not set"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	switch cfg.StorageBackend {
	case StorageLocal:
		if cfg.MediaRoot == "" {
			errs = append(errs, ValidationError{"MEDIA_ROOT", "required environment variable is not set"})
		}
	case StorageS3:
		if cfg.S3Bucket == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "required when STORAGE_BACKEND is s3"})
		}
	default:
		errs = append(errs, ValidationError{"STORAGE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.StorageBackend)})
	}

	if cfg.PageSize <= 0 {
		errs = append(errs, ValidationError{"PAGE_SIZE", "must be positive"})
	}
	if cfg.MaxUploadSize <= 0 {
		errs = append(errs, ValidationError{"MAX_UPLOAD_SIZE", "must be positive"})
	}
	if cfg.RateLimitLimit <= 0 || cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT", "window and limit must be positive"})
	}

	if len(errs) > 0 {
		lines := make([]string, len(errs))
		for i, e := range errs {
			lines[i] = e.Error()
		}
		return fmt.Errorf("invalid configuration:\n%s", strings.Join(lines, "\n"))
	}

	return nil
}
