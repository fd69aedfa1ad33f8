package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcher_Notify(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := NewDispatcher(zap.New(core))

	t.Run("collects into request collector", func(t *testing.T) {
		ctx, c := WithCollector(context.Background())
		d.Notify(ctx, Success("Cartão salvo", ""))
		d.Notify(ctx, Failure("Erro", "falhou"))

		items := c.Drain()
		require.Len(t, items, 2)
		assert.Equal(t, LevelSuccess, items[0].Level)
		assert.Equal(t, "falhou", items[1].Message)
		assert.Empty(t, c.Drain())
	})

	t.Run("without collector only logs", func(t *testing.T) {
		before := logs.Len()
		d.Notify(context.Background(), Info("Pagamento cancelado", ""))
		assert.Equal(t, before+1, logs.Len())
	})
}

func TestNewDispatcher_NilLogger(t *testing.T) {
	d := NewDispatcher(nil)
	assert.NotPanics(t, func() { d.Notify(context.Background(), Info("x", "")) })
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(context.Background(), Failure("a", ""))
	r.Notify(context.Background(), Success("b", ""))
	r.Notify(context.Background(), Failure("c", ""))

	assert.Len(t, r.All(), 3)
	assert.Equal(t, 2, r.Count(LevelError))
	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "c", last.Title)
}
