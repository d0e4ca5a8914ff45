package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAuthSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authSecret")
}

func TestLoadDefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "s3cret", cfg.AuthSecret)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes)
	assert.Equal(t, time.Minute, cfg.SweepIntervalDuration())
	assert.Equal(t, 10*time.Minute, cfg.StaleGenerationDuration())
	assert.Contains(t, cfg.AllowedTypes, "image/png")
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
authSecret: from-file
sweepInterval: 30s
corsOrigins:
  - https://chat.example.com
`), 0o644))

	t.Setenv("PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "from-file", cfg.AuthSecret)
	assert.Equal(t, 30*time.Second, cfg.SweepIntervalDuration())
	assert.Equal(t, []string{"https://chat.example.com"}, cfg.CORSOrigins)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("SWEEP_INTERVAL", "often")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweepInterval")
}
