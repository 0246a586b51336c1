package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFiltersByMinLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithZap(LevelWarn, zap.New(core))

	l.Debug("Test", "dropped %d", 1)
	l.Info("Test", "dropped %d", 2)
	l.Warn("Test", "kept %d", 3)
	l.Error("", "kept %d", 4)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "kept 3", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "Test", entries[0].ContextMap()["component"])
	assert.Equal(t, "kept 4", entries[1].Message)
	assert.NotContains(t, entries[1].ContextMap(), "component")
}

func TestSetLogLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithZap(LevelError, zap.New(core))

	l.Info("Test", "before")
	l.SetLogLevel(LevelDebug)
	l.Debug("Test", "after")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "after", logs.All()[0].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, "WARN", LevelWarn.String())
}
