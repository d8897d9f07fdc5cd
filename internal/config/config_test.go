package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "chessmetrics.db", cfg.DBPath)
	assert.Equal(t, "data", cfg.OutputDir)
	assert.Equal(t, "classical", cfg.DefaultTimeControl)
	assert.False(t, cfg.UseOptimizer)
	assert.Empty(t, cfg.Inputs)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
db_path: /tmp/archive.db
output_dir: out
use_optimizer: true
inputs:
  - path: games/classical
  - path: games/blitz
    time_control: blitz
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/archive.db", cfg.DBPath)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.UseOptimizer)
	require.Len(t, cfg.Inputs, 2)
	assert.Equal(t, "games/classical", cfg.Inputs[0].Path)
	assert.Empty(t, cfg.Inputs[0].TimeControl, "falls back to default control")
	assert.Equal(t, "blitz", cfg.Inputs[1].TimeControl)

	// Untouched keys keep their defaults.
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "classical", cfg.DefaultTimeControl)
}

func TestLoad_FileFromEnvVar(t *testing.T) {
	path := writeConfig(t, "log_level: warn\n")
	t.Setenv("CHESSMETRICS_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log_level: debug\ndb_path: from-file.db\n")
	t.Setenv("CHESSMETRICS_DB_PATH", "from-env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel, "file keys without env override survive")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config file")
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad default time control", "default_time_control: bullet\n"},
		{"bad log format", "log_format: xml\n"},
		{"input without path", "inputs:\n  - time_control: blitz\n"},
		{"input with bad time control", "inputs:\n  - path: games\n    time_control: bullet\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}
