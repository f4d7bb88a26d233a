package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "taskhive", cfg.AppName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "taskhive", cfg.Auth.JWTIssuer)
	assert.Equal(t, 24, cfg.Buffer.RetentionHours)
	assert.True(t, cfg.Migrations.Enabled)

	// URL is assembled from the component settings when unset
	assert.Contains(t, cfg.Database.URL, "taskhive_db")
	assert.Contains(t, cfg.Database.URL, "sslmode=disable")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.Database.URL)
	assert.False(t, cfg.Migrations.Enabled)
}

func TestGetDuration_AcceptsBareSeconds(t *testing.T) {
	t.Setenv("SYNC_INTERVAL_SECONDS", "45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Buffer.SyncInterval)
}
