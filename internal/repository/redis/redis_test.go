package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/room-designer/internal/config"
	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/repository/redis"
)

// These tests need a live Redis; set TEST_REDIS_ADDR to run them.
func newClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	t.Cleanup(func() { rdb.Close() })
	return redis.Wrap(rdb)
}

func TestSessionStore(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()
	store := redis.NewSessionStore(client, time.Minute)

	s := domain.NewSession("s-1", "https://cdn/room.jpg", time.Now())
	s.AddFurniture(domain.NewFootprint("Sofa", "3-Seater Sofa", domain.FurnitureDimensions{Width: 84, Depth: 36}))
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 21.0, got.TotalFootprintSqft)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.Delete(ctx, "s-1"))
	_, err = store.Get(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLocker(t *testing.T) {
	client := newClient(t)
	locker := redis.NewLocker(client, 5*time.Second)

	unlock, err := locker.Lock(context.Background(), "s-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrLockTimeout)

	unlock()
	again, err := locker.Lock(context.Background(), "s-1")
	require.NoError(t, err)
	again()
}

func TestSearchCacheAndRateLimit(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	cache := redis.NewSearchCache(client, time.Minute)
	items, err := cache.Get(ctx, "q1")
	require.NoError(t, err)
	assert.Nil(t, items)

	require.NoError(t, cache.Set(ctx, "q1", []domain.FurnitureItem{{Name: "Oak Desk", Price: 120}}))
	items, err = cache.Get(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	deleted, err := cache.FlushAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	limiter := redis.NewRateLimiter(client, config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1})
	for i := 0; i < 2; i++ {
		allowed, _, _, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, remaining, _, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}
