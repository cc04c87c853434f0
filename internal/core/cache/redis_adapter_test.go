package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*RedisAdapter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return adapter, mr
}

func TestRedisAdapter_GetSet(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	err := adapter.Set(ctx, "tracking:ORD-1", []byte(`{"status":"packed"}`), 10*time.Second)
	assert.NoError(t, err)

	value, err := adapter.Get(ctx, "tracking:ORD-1")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"status":"packed"}`), value)
}

func TestRedisAdapter_GetNotFound(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	_, err := adapter.Get(context.Background(), "tracking:missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisAdapter_Delete(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "tracking:ORD-2", []byte("value"), 0))
	assert.NoError(t, adapter.Delete(ctx, "tracking:ORD-2"))

	_, err := adapter.Get(ctx, "tracking:ORD-2")
	assert.Error(t, err)
}

func TestRedisAdapter_TTL(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "tracking:ORD-3", []byte("expires"), 1*time.Second))

	_, err := adapter.Get(ctx, "tracking:ORD-3")
	assert.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = adapter.Get(ctx, "tracking:ORD-3")
	assert.Error(t, err)
}

func TestRedisAdapter_Ping(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	assert.NoError(t, adapter.Ping(context.Background()))
}

func TestRedisAdapter_InvalidURL(t *testing.T) {
	_, err := NewRedisAdapter("invalid://url")
	assert.Error(t, err)
}
