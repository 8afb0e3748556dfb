package router

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/logging"
)

func TestMemoryLimiterStore_BurstThenDeny(t *testing.T) {
	store := NewMemoryLimiterStore(2, time.Hour)

	for i := 0; i < 2; i++ {
		ok, err := store.Allow("198.51.100.1")
		assert.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := store.Allow("198.51.100.1")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, _ = store.Allow("198.51.100.2")
	assert.True(t, ok)
}

func TestMemoryLimiterStore_NeverExceedsMaxWithinWindow(t *testing.T) {
	const max = 4
	window := 2 * time.Second
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := start

	store := NewMemoryLimiterStore(max, window)
	store.now = func() time.Time { return clock }
	store.counter.(*memoryCounter).now = func() time.Time { return clock }

	allowedIn := func(from time.Time) int {
		allowed := 0
		for clock = from; clock.Before(from.Add(window)); clock = clock.Add(20 * time.Millisecond) {
			ok, err := store.Allow("1.2.3.4")
			assert.NoError(t, err)
			if ok {
				allowed++
			}
		}
		return allowed
	}

	assert.Equal(t, max, allowedIn(start))
	assert.Equal(t, max, allowedIn(start.Add(window)), "next window starts fresh")
}

func TestMemoryCounter_SweepsExpiredKeys(t *testing.T) {
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	counter := newMemoryCounter()
	counter.now = func() time.Time { return clock }
	ctx := context.Background()

	n, err := counter.Incr(ctx, "a", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, _ = counter.Incr(ctx, "a", time.Minute)
	assert.Equal(t, int64(2), n)

	clock = clock.Add(2 * time.Minute)
	n, _ = counter.Incr(ctx, "b", time.Minute)
	assert.Equal(t, int64(1), n)
	assert.NotContains(t, counter.counts, "a")
}

func TestRedisLimiterStore_FailsOpenWithoutRedis(t *testing.T) {
	store := NewRedisLimiterStore(nil, logging.Discard(), 1, time.Minute)

	for i := 0; i < 5; i++ {
		ok, err := store.Allow("198.51.100.1")
		assert.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRedisLimiterStore_KeyIsPerWindow(t *testing.T) {
	store := NewRedisLimiterStore(nil, logging.Discard(), 1, 15*time.Minute)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base.Add(time.Minute) }
	first := store.key("198.51.100.1")

	store.now = func() time.Time { return base.Add(14 * time.Minute) }
	assert.Equal(t, first, store.key("198.51.100.1"))

	store.now = func() time.Time { return base.Add(16 * time.Minute) }
	assert.NotEqual(t, first, store.key("198.51.100.1"))
	assert.NotEqual(t, first, store.key("198.51.100.2"))
}
