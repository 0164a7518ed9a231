package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"todoapi/internal/adapter/http/middleware"
	"todoapi/pkg/config"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func setupLimitedRouter(limit config.RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	limiter := middleware.NewRateLimiter(nil, map[string]config.RateLimitConfig{
		"GET /ping": limit,
	}, nil)

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	return router
}

func ping(router *gin.Engine) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/ping", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

func TestRateLimiterAllowsUnderLimit(t *testing.T) {
	RegisterTestingT(t)

	router := setupLimitedRouter(config.RateLimitConfig{Requests: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		Expect(ping(router).Code).To(Equal(http.StatusOK))
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	RegisterTestingT(t)

	router := setupLimitedRouter(config.RateLimitConfig{Requests: 2, Window: time.Minute})

	ping(router)
	ping(router)

	rr := ping(router)

	Expect(rr.Code).To(Equal(http.StatusTooManyRequests))
	Expect(rr.Header().Get("Retry-After")).To(Equal("60"))
}

func TestRateLimiterIgnoresUnconfiguredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := middleware.NewRateLimiter(nil, map[string]config.RateLimitConfig{}, nil)

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, ping(router).Code)
	}
}

func TestRateLimiterKeysAuthenticatedRoutesByUser(t *testing.T) {
	RegisterTestingT(t)

	gin.SetMode(gin.TestMode)

	limiter := middleware.NewRateLimiter(nil, map[string]config.RateLimitConfig{
		"GET /todos": {Requests: 1, Window: time.Minute},
	}, nil)

	router := gin.New()

	// The limiter runs after authentication, as on the real todo routes,
	// so the window follows the user id rather than the shared IP.
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, mustAtoi(c.GetHeader("X-Test-User")))
		c.Next()
	})
	router.Use(limiter.Middleware())
	router.GET("/todos", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	get := func(user string) int {
		req, _ := http.NewRequest("GET", "/todos", nil)
		req.Header.Set("X-Test-User", user)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		return rr.Code
	}

	Expect(get("1")).To(Equal(http.StatusOK))
	Expect(get("2")).To(Equal(http.StatusOK))

	Expect(get("1")).To(Equal(http.StatusTooManyRequests))
	Expect(get("2")).To(Equal(http.StatusTooManyRequests))
}

func mustAtoi(value string) int {
	parsed, err := strconv.Atoi(value)

	if err != nil {
		panic(err)
	}

	return parsed
}

func TestMemoryCounterStoreResetsAfterWindow(t *testing.T) {
	RegisterTestingT(t)

	store := middleware.NewMemoryCounterStore()
	ctx := context.Background()

	count, err := store.Incr(ctx, "key", 20*time.Millisecond)
	Expect(err).To(BeNil())
	Expect(count).To(Equal(int64(1)))

	count, _ = store.Incr(ctx, "key", 20*time.Millisecond)
	Expect(count).To(Equal(int64(2)))

	time.Sleep(30 * time.Millisecond)

	count, _ = store.Incr(ctx, "key", 20*time.Millisecond)
	Expect(count).To(Equal(int64(1)))
}
