package rediscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GetSetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "record:75761365043766:current", []byte(`{"status":"已发出"}`), time.Minute))

	b, ok, err := c.Get(ctx, "record:75761365043766:current")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, string(b), "已发出")

	require.NoError(t, c.Del(ctx, "record:75761365043766:current"))
	_, ok, err = c.Get(ctx, "record:75761365043766:current")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_GetMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())

	_, ok, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRateLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := NewRateLimiter(mr.Addr())

	ctx := context.Background()
	ok, n, err := rl.Allow(ctx, "upload:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), n)

	ok, n, _ = rl.Allow(ctx, "upload:10.0.0.1", 2, time.Minute)
	require.True(t, ok)
	require.Equal(t, int64(2), n)

	ok, n, _ = rl.Allow(ctx, "upload:10.0.0.1", 2, time.Minute)
	require.False(t, ok)
	require.Equal(t, int64(3), n)
}
