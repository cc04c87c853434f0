package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("POLL_INTERVAL_SECONDS")

	os.Setenv("UPSTREAM_URL", "https://shop.test")
	defer os.Unsetenv("UPSTREAM_URL")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 10, cfg.Upstream.TimeoutSeconds)
	assert.Equal(t, 30, cfg.Polling.IntervalSeconds)
	assert.Equal(t, 900, cfg.Redis.SnapshotTTLSeconds)
	assert.Empty(t, cfg.Redis.URL)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("UPSTREAM_URL", "https://shop.example.com")
	os.Setenv("UPSTREAM_ACCESS_TOKEN", "access-123")
	os.Setenv("UPSTREAM_REFRESH_TOKEN", "refresh-456")
	os.Setenv("POLL_INTERVAL_SECONDS", "5")
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("UPSTREAM_URL")
		os.Unsetenv("UPSTREAM_ACCESS_TOKEN")
		os.Unsetenv("UPSTREAM_REFRESH_TOKEN")
		os.Unsetenv("POLL_INTERVAL_SECONDS")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "https://shop.example.com", cfg.Upstream.BaseURL)
	assert.Equal(t, "access-123", cfg.Upstream.AccessToken)
	assert.Equal(t, "refresh-456", cfg.Upstream.RefreshToken)
	assert.Equal(t, 5, cfg.Polling.IntervalSeconds)
}

// TestLoad_MissingRequired verifies that a missing upstream URL fails loading.
func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("UPSTREAM_URL")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "UPSTREAM_URL")
}
