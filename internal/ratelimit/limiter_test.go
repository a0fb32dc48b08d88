package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFallbackLimiter(config Config) *RateLimiter {
	// No Redis address configured, so everything runs on the in-memory path.
	return NewRateLimiter(NewRedisClient("", "", 0), config)
}

func TestAllowIPFallback(t *testing.T) {
	rl := newFallbackLimiter(Config{IPLimitPerMin: 10, BurstMultiplier: 1})

	result, err := rl.AllowIP(context.Background(), "192.0.2.1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 10, result.Limit)
}

func TestAllowIPFallbackExhaustsBurst(t *testing.T) {
	rl := newFallbackLimiter(Config{IPLimitPerMin: 2, BurstMultiplier: 1})

	// Burst floor is 5; the sixth immediate request must be rejected.
	allowedCount := 0
	var last *Result
	for i := 0; i < 6; i++ {
		result, err := rl.AllowIP(context.Background(), "192.0.2.2")
		require.NoError(t, err)
		if result.Allowed {
			allowedCount++
		}
		last = result
	}

	assert.Equal(t, 5, allowedCount)
	assert.False(t, last.Allowed)
	assert.Greater(t, last.RetryAfter.Seconds(), 0.0)
}

func TestAllowIPIsolatesClients(t *testing.T) {
	rl := newFallbackLimiter(Config{IPLimitPerMin: 2, BurstMultiplier: 1})

	for i := 0; i < 5; i++ {
		_, err := rl.AllowIP(context.Background(), "192.0.2.3")
		require.NoError(t, err)
	}
	blocked, err := rl.AllowIP(context.Background(), "192.0.2.3")
	require.NoError(t, err)
	require.False(t, blocked.Allowed)

	// A different client is unaffected.
	other, err := rl.AllowIP(context.Background(), "192.0.2.4")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestIPRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := newFallbackLimiter(Config{IPLimitPerMin: 2, BurstMultiplier: 1})

	r := gin.New()
	r.Use(rl.IPRateLimitMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	var lastCode int
	for i := 0; i < 6; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)
		lastCode = w.Code

		if w.Code == http.StatusOK {
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		}
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestRedisClientDisabledWithoutAddr(t *testing.T) {
	c := NewRedisClient("", "", 0)

	assert.False(t, c.IsEnabled())
	assert.Error(t, c.HealthCheck(context.Background()))
	assert.NoError(t, c.Close())
}
