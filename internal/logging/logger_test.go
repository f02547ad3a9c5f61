package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/nextup/internal/config"
)

func TestFromConfigWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextup.log")
	logger, err := FromConfig(config.LoggingConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	logger.Component("server").Info("listening", "addr", ":18900")
	require.NoError(t, logger.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(raw, &line))
	assert.Equal(t, "listening", line["msg"])
	assert.Equal(t, "server", line["component"])
	assert.Equal(t, ":18900", line["addr"])
}

func TestFromConfigLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextup.log")
	logger, err := FromConfig(config.LoggingConfig{Level: "warn", Format: "text", File: path})
	require.NoError(t, err)

	logger.Info("suppressed")
	logger.Warn("kept")
	require.NoError(t, logger.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "suppressed")
	assert.Contains(t, string(raw), "kept")
}

func TestFromConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextup.log")
	logger, err := FromConfig(config.LoggingConfig{Level: "verbose", Format: "xml", File: path})
	require.NoError(t, err)

	// Unknown level falls back to info, unknown format to text.
	logger.Debug("suppressed")
	logger.Info("kept")
	require.NoError(t, logger.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "suppressed")
	assert.True(t, strings.Contains(string(raw), "msg=kept"), "expected text format, got: %s", raw)
}

func TestFromConfigUnopenableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "nextup.log")
	_, err := FromConfig(config.LoggingConfig{Level: "info", Format: "json", File: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log file")
}

func TestFromConfigStdoutNeedsNoClose(t *testing.T) {
	logger, err := FromConfig(config.LoggingConfig{Level: "debug", Format: "text"})
	require.NoError(t, err)
	assert.NoError(t, logger.Close())
}

func TestNew(t *testing.T) {
	logger := New()
	require.NotNil(t, logger.Logger)
	assert.NoError(t, logger.Close())
}
