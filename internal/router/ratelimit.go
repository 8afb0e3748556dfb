package router

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskboard/internal/cache"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/logging"
)

// RateLimiter limits every route per client IP using store.
func RateLimiter(store middleware.RateLimiterStore) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error: "too many requests, please try again later",
				Code:  "TOO_MANY_REQUESTS",
			})
		},
	})
}

const rateLimitKeyPrefix = "ratelimit:"

// WindowCounter increments key and returns its count within the current
// window. The window starts with the first increment.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// FixedWindowStore allows at most max requests per client in each fixed
// window. It allows traffic when the counter fails.
type FixedWindowStore struct {
	counter WindowCounter
	log     logging.Logger
	max     int64
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
}

var _ middleware.RateLimiterStore = (*FixedWindowStore)(nil)

// NewRedisLimiterStore counts in redis, so every server instance shares the
// same windows.
func NewRedisLimiterStore(c *cache.Client, log logging.Logger, max int, window time.Duration) *FixedWindowStore {
	return newFixedWindowStore(c, log, max, window)
}

// NewMemoryLimiterStore counts in process memory.
func NewMemoryLimiterStore(max int, window time.Duration) *FixedWindowStore {
	return newFixedWindowStore(newMemoryCounter(), logging.Discard(), max, window)
}

func newFixedWindowStore(counter WindowCounter, log logging.Logger, max int, window time.Duration) *FixedWindowStore {
	return &FixedWindowStore{
		counter: counter,
		log:     log,
		max:     int64(max),
		window:  window,
		timeout: 250 * time.Millisecond,
		now:     time.Now,
	}
}

// Allow implements middleware.RateLimiterStore.
func (s *FixedWindowStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	count, err := s.counter.Incr(ctx, s.key(identifier), s.window)
	if err != nil {
		s.log.Warn(ctx, "rate limit store unavailable, allowing request", "error", err)
		return true, nil
	}
	return count <= s.max, nil
}

// key buckets identifier by window start so a lost EXPIRE cannot pin a client.
func (s *FixedWindowStore) key(identifier string) string {
	bucket := s.now().UnixNano() / int64(s.window)
	return fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, identifier, bucket)
}

type windowCount struct {
	n       int64
	expires time.Time
}

// memoryCounter is the in-process WindowCounter. Expired keys are swept at
// most once per window.
type memoryCounter struct {
	mu        sync.Mutex
	counts    map[string]windowCount
	lastSweep time.Time
	now       func() time.Time
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{counts: make(map[string]windowCount), now: time.Now}
}

func (m *memoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= window {
		for k, c := range m.counts {
			if !now.Before(c.expires) {
				delete(m.counts, k)
			}
		}
		m.lastSweep = now
	}

	c, ok := m.counts[key]
	if !ok || !now.Before(c.expires) {
		c = windowCount{expires: now.Add(window)}
	}
	c.n++
	m.counts[key] = c
	return c.n, nil
}
