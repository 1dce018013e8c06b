package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "client.log")

	logger, err := NewLogger("warn", logFile)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("visible")
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "visible"))
	assert.False(t, strings.Contains(string(raw), "hidden"))
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger("verbose", "")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
