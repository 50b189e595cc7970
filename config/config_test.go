package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef-test"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost/eventhub_test")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "postgres://localhost/eventhub_test", cfg.DatabaseURL)
	assert.Equal(t, 720*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_DatabaseFromParts(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "portal")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)
	assert.Contains(t, cfg.DatabaseURL, "host=db")
	assert.Contains(t, cfg.DatabaseURL, "dbname=portal")
}

func TestLoad_RejectsWeakSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load("does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")
}

func TestLoad_RejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load("does-not-exist.env")
	require.Error(t, err)
}

func TestLoad_RateLimitSwitch(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("RATE_LIMIT_ENABLED", "no")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)
	assert.False(t, cfg.RateLimitEnabled)
}
