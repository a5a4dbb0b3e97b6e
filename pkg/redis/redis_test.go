package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (RedisAdapter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	name := t.Name()
	adapter, err := NewRedisAdapter(name, "test:", &Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter, mr
}

func TestRedisAdapter_SetGetDel(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), time.Minute))
	assert.True(t, mr.Exists("test:k"), "keys are stored with the prefix")

	got, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, adapter.Del(ctx, "k"))
	_, err = adapter.Get(ctx, "k")
	assert.True(t, IsNil(err))
}

func TestRedisAdapter_TTL(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "session", []byte("1"), time.Second))
	mr.FastForward(2 * time.Second)

	n, err := adapter.Exist(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	err = adapter.Expire(ctx, "session", time.Minute)
	assert.True(t, IsNil(err))
}

func TestRedisAdapter_SetNX(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	ok, err := adapter.SetNX(ctx, "once", []byte("a"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.SetNX(ctx, "once", []byte("b"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisAdapter_Sets(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.SAdd(ctx, "user:1", "a", "b"))
	require.NoError(t, adapter.SRem(ctx, "user:1", "a"))

	members, err := adapter.SMembers(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, members)
}

func TestGetRedis_ReturnsCachedAdapter(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	assert.Same(t, adapter, GetRedis(t.Name()))
}

func TestNewRedisAdapter_Unreachable(t *testing.T) {
	_, err := NewRedisAdapter("unreachable", "", &Options{
		Addrs:       []string{"127.0.0.1:1"},
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	assert.Error(t, err)
}
