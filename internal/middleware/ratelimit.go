package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nikhil00shinde/pokemon-api/internal/cache"
	apperrors "github.com/nikhil00shinde/pokemon-api/pkg/errors"
	"github.com/nikhil00shinde/pokemon-api/pkg/logger"
	"github.com/nikhil00shinde/pokemon-api/pkg/response"
)

// RateStore coordinates rate limiting counters for a specific key.
type RateStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, ttl time.Duration, err error)
}

// RateLimit limits requests per (clientIP, path) within a fixed window using
// the supplied store. A failing store lets traffic through: rate limiting is
// protective, not load-bearing.
func RateLimit(store RateStore, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || maxRequests <= 0 || window <= 0 {
			c.Next()
			return
		}

		key := "rate:" + c.ClientIP() + "|" + c.FullPath()
		count, ttl, err := store.Increment(c.Request.Context(), key, window)
		if err != nil {
			logger.WithModule("http").Warn("rate store unavailable, skipping limit", zap.Error(err))
			c.Next()
			return
		}

		remaining := maxRequests - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

		if count > maxRequests {
			response.Error(c, apperrors.ErrRateLimit)
			c.Abort()
			return
		}

		c.Next()
	}
}

// NewCacheRateStore wraps a cache store in a RateStore implementation,
// letting Redis (or the database fallback) hold the counters.
func NewCacheRateStore(store cache.Store) RateStore {
	if store == nil {
		return nil
	}
	return &cacheRateStore{store: store}
}

type cacheRateStore struct {
	store cache.Store
}

func (s *cacheRateStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if window <= 0 {
		window = time.Minute
	}
	count, ttl, err := s.store.IncrementWithTTL(ctx, key, window)
	return int(count), ttl, err
}

// NewMemoryRateStore constructs a process-local rate store for deployments
// without an external cache. It is concurrency-safe.
func NewMemoryRateStore() RateStore {
	store := &memoryRateStore{
		data: make(map[string]*memoryCounter),
		tick: time.NewTicker(time.Minute),
	}

	go store.cleanupLoop()
	return store
}

type memoryRateStore struct {
	mu   sync.Mutex
	data map[string]*memoryCounter
	tick *time.Ticker
}

type memoryCounter struct {
	count     int
	windowEnd time.Time
}

func (s *memoryRateStore) cleanupLoop() {
	for range s.tick.C {
		now := time.Now()
		s.mu.Lock()
		for key, counter := range s.data {
			if now.After(counter.windowEnd) {
				delete(s.data, key)
			}
		}
		s.mu.Unlock()
	}
}

func (s *memoryRateStore) Increment(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if window <= 0 {
		window = time.Minute
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	counter, ok := s.data[key]
	if !ok || now.After(counter.windowEnd) {
		counter = &memoryCounter{windowEnd: now.Add(window)}
		s.data[key] = counter
	}

	counter.count++

	return counter.count, time.Until(counter.windowEnd), nil
}
