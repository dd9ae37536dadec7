package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := Load()
	assert.Equal(t, 20, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Interval)
	assert.Equal(t, "file", cfg.CacheBackend)
	assert.Equal(t, ".cache", cfg.CacheDir)
	assert.Equal(t, 900*time.Second, cfg.CacheTTL)
	assert.Equal(t, "127.0.0.1:8088", cfg.ControlAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.HostInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RSSDIGEST_WORKERS", "8")
	t.Setenv("RSSDIGEST_CACHE_TTL", "1m")
	t.Setenv("RSSDIGEST_INTERVAL", "not-a-duration")
	t.Setenv("CACHE_BACKEND", "postgres")

	cfg := Load()
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.Interval)
	assert.Equal(t, "postgres", cfg.CacheBackend)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CONTROL_ADDR=127.0.0.1:9999\n"), 0o644))
	t.Setenv("CONTROL_ADDR", "")
	os.Unsetenv("CONTROL_ADDR")

	cfg := Load()
	assert.Equal(t, "127.0.0.1:9999", cfg.ControlAddr)
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "rssdigest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("RSSDIGEST_WORKERS: 4\nRSSDIGEST_CACHE_DIR: /tmp/feeds\nLOG_LEVEL: debug\n"), 0o644))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "/tmp/feeds", cfg.CacheDir)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- just\n- a list\n"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}
