package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.Addr)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "linkdesk_session", cfg.Session.CookieName)
	assert.Equal(t, 90*24*time.Hour, cfg.Clicks.Retention)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("postgres:\n  host: db.internal\n  port: 6543\nredis:\n  host: cache.internal\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	t.Setenv("PG_HOST", "override.internal")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "override.internal", cfg.Postgres.Host)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t, "cache.internal", cfg.Redis.Host)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsProduction())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}
