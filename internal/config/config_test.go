package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("AUTH_SESSION_TTL_MINUTES", "")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, "ecommerce-products", cfg.Cloudinary.Folder)
	assert.Empty(t, cfg.Cloudinary.CloudName)
	assert.Equal(t, 10*1024*1024, cfg.App.BodyLimitBytes)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, cfg.App.Name, cfg.Logger.Service)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("AUTH_SECURE_COOKIES", "true")
	t.Setenv("AUTH_SESSION_TTL_MINUTES", "15")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "not-a-bool")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.True(t, cfg.Auth.SecureCookies)
	assert.Equal(t, 15*time.Minute, cfg.Auth.SessionTTL())
	assert.True(t, cfg.Postgres.RunMigrations, "invalid bool falls back to default")
	assert.False(t, cfg.Logger.Development)
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	assert.Error(t, err)
}

func TestRequestTimeoutDisabled(t *testing.T) {
	assert.Zero(t, AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
}
