package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitAcceptsKnownLevels(t *testing.T) {
	require.NoError(t, Init("debug"))
	require.True(t, Logger().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("warn"))
	require.False(t, Logger().Core().Enabled(zapcore.InfoLevel))
	require.True(t, Logger().Core().Enabled(zapcore.WarnLevel))
}

func TestInitFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init("not-a-level"))
	require.True(t, Logger().Core().Enabled(zapcore.InfoLevel))
	require.False(t, Logger().Core().Enabled(zapcore.DebugLevel))
}

func TestWithModuleReturnsChild(t *testing.T) {
	require.NoError(t, Init("info"))
	require.NotNil(t, WithModule("cache"))
}
