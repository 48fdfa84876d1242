package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Setenv("X_BEARER_TOKEN", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := Default()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "https://api.twitter.com/2", cfg.API.BaseURL)
	assert.Equal(t, 100, cfg.API.PageSize)
	assert.Equal(t, 50, cfg.API.MaxPages)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 10, cfg.Report.MaxPerSection)
	assert.Equal(t, "localhost:8765", cfg.Dashboard.Addr)
	assert.Equal(t, 30, cfg.Watch.IntervalMinutes)
	assert.Empty(t, cfg.API.BearerToken)
	assert.Empty(t, cfg.Analysis.APIKey)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("X_BEARER_TOKEN", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.PageSize = 25
	cfg.Dashboard.Posts = []string{"2008652887136891376"}
	cfg.Watch.IntervalMinutes = 5
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.API.PageSize)
	assert.Equal(t, []string{"2008652887136891376"}, loaded.Dashboard.Posts)
	assert.Equal(t, 5, loaded.Watch.IntervalMinutes)
	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)
}

func TestSecretsNeverTouchDisk(t *testing.T) {
	t.Setenv("X_BEARER_TOKEN", "super-secret-bearer")
	t.Setenv("ANTHROPIC_API_KEY", "super-secret-key")

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	assert.Equal(t, "super-secret-bearer", cfg.API.BearerToken)
	require.NoError(t, cfg.SaveTo(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-bearer")
	assert.NotContains(t, string(raw), "super-secret-key")

	// Secrets reattach from the environment on load.
	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "super-secret-bearer", loaded.API.BearerToken)
	assert.Equal(t, "super-secret-key", loaded.Analysis.APIKey)
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
