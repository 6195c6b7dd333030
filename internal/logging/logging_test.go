package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNone(t *testing.T) {
	logger, err := New(None, "bogus", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hares.log")
	logger, err := New(File, "info", path)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("font loaded", zap.String("family", "Helvetiker"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "font loaded", entry["msg"])
	assert.Equal(t, "Helvetiker", entry["family"])
	assert.Equal(t, "info", entry["level"])
}

func TestErrors(t *testing.T) {
	_, err := New(Console, "loud", "")
	assert.ErrorContains(t, err, "log level")

	_, err = New(File, "info", "")
	assert.ErrorContains(t, err, "path is required")
}

func TestForInteractive(t *testing.T) {
	logger, err := ForInteractive("info", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))

	logger, err = ForInteractive("warn", filepath.Join(t.TempDir(), "x.log"))
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))
}
