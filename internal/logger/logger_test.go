// ABOUTME: Tests for the global zap logger setup.
// ABOUTME: Covers level parsing, Init, and swapping in an observer.
package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	defer Set(zap.NewNop())

	require.NoError(t, Init("debug", false))
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("warn", true))
	assert.False(t, L().Core().Enabled(zapcore.InfoLevel))

	assert.Error(t, Init("nope", false))
}

func TestSetObserver(t *testing.T) {
	defer Set(zap.NewNop())

	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))

	L().Info("hello", zap.String("user", "jack"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "jack", entry.ContextMap()["user"])
}
