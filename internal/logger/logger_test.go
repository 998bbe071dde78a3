package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" warning "))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestNew_RespectsLevel(t *testing.T) {
	l := New(Config{Env: "prod", Level: "warn"})
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	ctx := ToContext(context.Background(), l.With(RequestID("req-1")))
	From(ctx).Info("hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	}
}

func TestFrom_WithoutLoggerIsNop(t *testing.T) {
	assert.NotPanics(t, func() {
		From(context.Background()).Info("dropped")
	})
}
