package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ussd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "ussd.app.session", cfg.Session.KeyPrefix)
	assert.Equal(t, 75*time.Second, cfg.Session.TTL.Std())
	assert.Equal(t, 120*time.Second, cfg.Session.StateTTL.Std())
	assert.Equal(t, 182, cfg.Screen.MaxPageLength)
}

func TestLoadOverlay(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
redis:
  url: redis://cache:6379/2
session:
  ttl: 90s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "redis://cache:6379/2", cfg.Redis.URL)
	assert.Equal(t, 90*time.Second, cfg.Session.TTL.Std())
	// Untouched keys keep their defaults.
	assert.Equal(t, 120*time.Second, cfg.Session.StateTTL.Std())
	assert.Equal(t, "ussd.app.session", cfg.Session.KeyPrefix)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := writeConfig(t, `
session:
  ttl: -5s
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ttl")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
