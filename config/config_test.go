package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CI", "ENV", "SECRETS_DIR", "DB_DRIVER", "DB_HOST", "DB_PASSWORD", "JWT_SECRET",
		"STORAGE_BACKEND", "S3_BUCKET_NAME", "PAGE_SIZE", "CORS_ALLOWED_ORIGINS", "REDIS_URL", "AWS_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
	}
	// Point at an empty directory so host secrets never leak into tests
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "recipes.db", cfg.SQLitePath)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, 3, cfg.PageSize)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadSize)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadConfigPrefersSecretFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("JWT_SECRET", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-file\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("pg-pass"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aws_secret_access_key"), []byte("aws-key\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "pg-pass", cfg.DBPassword)
	assert.Equal(t, "aws-key", cfg.AWSSecretKey)
}

func TestLoadConfigCIRequiresDatabasePassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("CI", "true")
	t.Setenv("JWT_SECRET", "ci-secret")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestValidateConfigCollectsAllErrors(t *testing.T) {
	clearEnv(t)
	cfg := &Config{
		DBDriver:        "mysql",
		StorageBackend:  StorageS3,
		PageSize:        0,
		MaxUploadSize:   1,
		RateLimitLimit:  1,
		RateLimitWindow: time.Minute,
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "jwt_secret")
	assert.Contains(t, msg, `unsupported driver "mysql"`)
	assert.Contains(t, msg, "S3_BUCKET_NAME")
	assert.Contains(t, msg, "PAGE_SIZE")
}

func TestValidateConfigRejectsSQLiteInProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	cfg := &Config{
		DBDriver:        DriverSQLite,
		SQLitePath:      "x.db",
		JWTSecret:       "s",
		StorageBackend:  StorageLocal,
		MediaRoot:       "media",
		PageSize:        3,
		MaxUploadSize:   1,
		RateLimitLimit:  1,
		RateLimitWindow: time.Minute,
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite is not supported in production")
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test, ,http://b.test ")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvList("CORS_ALLOWED_ORIGINS", nil))

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	assert.Equal(t, []string{"x"}, getEnvList("CORS_ALLOWED_ORIGINS", []string{"x"}))
}
