package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", Format: "json"}, "bookstore", "test")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = New(Config{Level: "not-a-level", Format: "console"}, "bookstore", "test")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.DebugLevel), "非法级别应回退到info")
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core).With(zap.String("request_id", "req-1"))

	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("下单成功")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "下单成功", entry.Message)
	assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
}

func TestFromContext_Fallback(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	ctx := WithContext(context.Background(), nil)
	assert.Nil(t, ctx.Value(ctxKey{}))
}
