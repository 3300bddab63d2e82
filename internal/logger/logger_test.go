package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerIsUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("hello")
		Infow("structured", "key", "value")
		Error("failed", errors.New("boom"))
	})
}

func TestInit_FallsBackToInfoOnBadLevel(t *testing.T) {
	prev := sugar
	t.Cleanup(func() { sugar = prev })

	require.NoError(t, Init("not-a-level", "json"))
	assert.True(t, sugar.Desugar().Core().Enabled(zap.InfoLevel))
	assert.False(t, sugar.Desugar().Core().Enabled(zap.DebugLevel))
}

func TestInfow_WritesFields(t *testing.T) {
	prev := sugar
	t.Cleanup(func() { sugar = prev })

	core, logs := observer.New(zap.InfoLevel)
	sugar = zap.New(core).Sugar()

	Infow("chat exchange", "status", "success", "history_length", 4)
	Warnw("slow provider", "latency", "3s")

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "chat exchange", entry.Message)
	assert.Equal(t, "success", entry.ContextMap()["status"])
	assert.EqualValues(t, 4, entry.ContextMap()["history_length"])
}
