package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/personnel-directory/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	app := config.AppConfig{Name: "personnel-directory", Version: "test", Env: "test"}

	debug, err := NewLogger(config.LoggerConfig{Level: "DEBUG"}, app)
	require.NoError(t, err)
	assert.True(t, debug.Core().Enabled(zapcore.DebugLevel))

	fallback, err := NewLogger(config.LoggerConfig{Level: "chatty"}, app)
	require.NoError(t, err)
	assert.False(t, fallback.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, fallback.Core().Enabled(zapcore.InfoLevel))
}
