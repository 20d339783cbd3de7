package cmd

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "bts", configBaseName)
	assert.Equal(t, "bts.yaml", configFileName)
	assert.Equal(t, ".bts", defaultHomeFolderName)
	assert.Equal(t, "home", homeFlagName)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "max-depth", maxDepthFlagName)
	assert.Equal(t, "copy.max_depth", maxDepthConfigKey)
	assert.Equal(t, "copy.exclude", excludeConfigKey)
	assert.Equal(t, 32, defaultMaxDepth)
	assert.Equal(t, "BTS", envPrefix)
	assert.Equal(t, "BT_HOME", legacyHomeEnv)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func TestResolveLogPath(t *testing.T) {
	home := t.TempDir()
	abs := filepath.Join(t.TempDir(), "custom.log")

	assert.Equal(t, filepath.Join(home, "run.log"), resolveLogPath(home, "run.log"))
	assert.Equal(t, abs, resolveLogPath(home, abs))
	assert.Equal(t, filepath.Join(home, defaultLogFilename), resolveLogPath(home, "  "))
}
