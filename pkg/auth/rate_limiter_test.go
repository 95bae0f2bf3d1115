package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiter_AllowsWithinBurst(t *testing.T) {
	limiter := NewIPRateLimiter(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Other keys keep their own budget
	allowed, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestTokenBucketLimiter_NonPositiveRateFallsBackToDefault(t *testing.T) {
	for _, rate := range []int{0, -5} {
		limiter := NewIPRateLimiter(rate)

		allowed, err := limiter.Allow(context.Background(), "10.0.0.1")

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, DefaultRequestsPerMinute, limiter.maxTokens)
	}
}

func TestTokenBucketLimiter_ResetRestoresBudget(t *testing.T) {
	limiter := NewUserRateLimiter(1)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "user-123")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _ = limiter.Allow(ctx, "user-123")
	require.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "user-123"))

	allowed, err = limiter.Allow(ctx, "user-123")
	require.NoError(t, err)
	assert.True(t, allowed)
}
