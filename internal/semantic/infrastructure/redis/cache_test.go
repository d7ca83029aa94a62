package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	semantic "bacnet-commissioning/internal/semantic/domain"
)

func setupTestRedis(t *testing.T, opts ...Option) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache, err := NewCache(client, opts...)
	require.NoError(t, err)
	return mr, cache
}

func TestCacheRoundTrip(t *testing.T) {
	mr, cache := setupTestRedis(t, WithKeyPrefix("test:"))
	ctx := context.Background()
	require.NoError(t, cache.Ping(ctx))

	_, ok, err := cache.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	point := semantic.NormalizedPoint{
		OriginalName:    "ZN-T",
		NormalizedName:  "Zone Temperature",
		HaystackTags:    []string{"point", "temp", "zone"},
		Confidence:      0.95,
		ConfidenceLevel: semantic.ConfidenceHigh,
	}
	require.NoError(t, cache.Set(ctx, "k1", point))
	assert.True(t, mr.Exists("test:k1"))

	got, ok, err := cache.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, point, got)
}

func TestCacheTTL(t *testing.T) {
	mr, cache := setupTestRedis(t, WithTTL(time.Minute))
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", semantic.NormalizedPoint{OriginalName: "X"}))

	mr.FastForward(2 * time.Minute)
	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheCorruptEntry(t *testing.T) {
	mr, cache := setupTestRedis(t)
	require.NoError(t, mr.Set(defaultKeyPrefix+"bad", "{not json"))
	_, ok, err := cache.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestNewCacheRequiresClient(t *testing.T) {
	_, err := NewCache(nil)
	require.Error(t, err)
}
