package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", cfg.Model)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Slots)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "gpt-4", cfg.Model)
}

func TestLoadSlotsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
model: gpt-4o
slots:
  "2025-12-01":
    - "09:00"
    - "13:30"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, []string{"09:00", "13:30"}, cfg.Slots["2025-12-01"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSetupLoggerRejectsBadLevel(t *testing.T) {
	cfg := &Config{Model: "gpt-4", LogLevel: "loud"}
	assert.Error(t, cfg.SetupLogger())
}
