package middleware_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ledgerdesk/internal/middleware"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	limiter := middleware.NewInMemoryRateLimiter(3, time.Hour)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := middleware.NewInMemoryRateLimiter(1, time.Hour)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	limiter := middleware.NewInMemoryRateLimiter(1, 20*time.Millisecond)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, limiter.Allow("10.0.0.1"))
}
