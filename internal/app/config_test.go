package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearRequiredEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"DATABASE_URL", "SESSION_SECRET", "BASE_URL", "CSRF_SECRET", "SESSION_TTL", "APP_ENV"} {
		// t.Setenv registers the restore; the variable must then be truly
		// unset because envconfig treats empty and unset differently.
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadConfigReportsAllMissingNames(t *testing.T) {
	clearRequiredEnv(t)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
	assert.Contains(t, err.Error(), "BASE_URL")
}

func TestLoadConfigReportsOnlyTheMissingName(t *testing.T) {
	clearRequiredEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/mapleai")
	t.Setenv("BASE_URL", "http://localhost:8080")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
	assert.NotContains(t, err.Error(), "DATABASE_URL")
	assert.NotContains(t, err.Error(), "BASE_URL")
}

func TestLoadConfigDefaults(t *testing.T) {
	clearRequiredEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/mapleai")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("BASE_URL", "http://localhost:8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 90, cfg.EventRetentionDays)
	assert.False(t, cfg.IsProduction())

	// CSRF falls back to the session secret when not set separately.
	assert.Equal(t, "test-secret", cfg.CSRFSecret)
}

func TestLoadConfigProduction(t *testing.T) {
	clearRequiredEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/mapleai")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("BASE_URL", "https://app.mapleai.com")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CSRF_SECRET", "separate-csrf-secret")
	t.Setenv("SESSION_TTL", "24h")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "separate-csrf-secret", cfg.CSRFSecret)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}
