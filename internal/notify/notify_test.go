package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	n.Success(context.Background(), "Order placed successfully")
	n.Error(context.Background(), "Failed to place the order")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "Order placed successfully", entries[0].ContextMap()["message"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "error", entries[1].ContextMap()["kind"])
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_, ok := r.Last()
	assert.False(t, ok)

	r.Success(context.Background(), "a")
	r.Error(context.Background(), "b")

	assert.Equal(t, []Toast{{"success", "a"}, {"error", "b"}}, r.Toasts())
	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, "b", last.Message)
}
