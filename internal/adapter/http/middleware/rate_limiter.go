package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"todoapi/internal/adapter/telemetry"
	"todoapi/internal/core/model/response"
	"todoapi/pkg/config"
)

// CounterStore counts hits per key inside a fixed window. The in-process
// store suffices for a single replica; a redis-backed store shares the
// window across replicas.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type memoryEntry struct {
	count     int64
	resetTime time.Time
}

type MemoryCounterStore struct {
	cache *cache.Cache
	mutex sync.Mutex
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *MemoryCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()

	if item, found := s.cache.Get(key); found {
		entry := item.(*memoryEntry)

		if now.Before(entry.resetTime) {
			entry.count++
			return entry.count, nil
		}
	}

	entry := &memoryEntry{count: 1, resetTime: now.Add(window)}
	s.cache.Set(key, entry, window)

	return 1, nil
}

type RateLimiter struct {
	store   CounterStore
	configs map[string]config.RateLimitConfig
	metrics *telemetry.AppMetrics
}

func NewRateLimiter(store CounterStore, configs map[string]config.RateLimitConfig, metrics *telemetry.AppMetrics) *RateLimiter {
	if store == nil {
		store = NewMemoryCounterStore()
	}

	return &RateLimiter{
		store:   store,
		configs: configs,
		metrics: metrics,
	}
}

// Middleware applies a fixed-window limit per route. Public routes are
// keyed by client IP, authenticated routes by user id.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.Request.Method + " " + c.FullPath()

		limit, found := rl.configs[route]

		if !found {
			c.Next()
			return
		}

		key := route + ":" + rl.clientKey(c)

		count, err := rl.store.Incr(c.Request.Context(), key, limit.Window)

		if err != nil {
			// A broken counter backend should not take the API down.
			c.Next()
			return
		}

		if count > int64(limit.Requests) {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(route)
			}

			c.Header("Retry-After", strconv.Itoa(int(limit.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{
				Error: "Too many requests",
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(route)
		}

		c.Next()
	}
}

func (rl *RateLimiter) clientKey(c *gin.Context) string {
	if userID, ok := c.Get(UserIDKey); ok {
		if id, ok := userID.(int); ok {
			return "user:" + strconv.Itoa(id)
		}
	}

	return "ip:" + c.ClientIP()
}
