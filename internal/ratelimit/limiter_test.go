package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiterForTest(t *testing.T) *Limiter {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLimiter(client)
}

func TestLimiterAllowsUnderLimit(t *testing.T) {
	limiter := newLimiterForTest(t)
	ctx := context.Background()

	for i := 0; i < int(limiter.limit)-1; i++ {
		require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.1", "login"))
	}

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestLimiterBlocksAtLimit(t *testing.T) {
	limiter := newLimiterForTest(t)
	ctx := context.Background()

	for i := 0; i < int(limiter.limit); i++ {
		require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.2", "register"))
	}

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.2", "register")
	require.NoError(t, err)
	assert.True(t, exceeded)
}

func TestLimiterIsScopedByPurposeAndIP(t *testing.T) {
	limiter := newLimiterForTest(t)
	ctx := context.Background()

	for i := 0; i < int(limiter.limit); i++ {
		require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.3", "login"))
	}

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.3", "register")
	require.NoError(t, err)
	assert.False(t, exceeded, "different purpose must not share the window")

	exceeded, err = limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.4", "login")
	require.NoError(t, err)
	assert.False(t, exceeded, "different IP must not share the window")
}

func TestLimiterUnknownIPNotLimited(t *testing.T) {
	limiter := newLimiterForTest(t)

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(context.Background(), "10.9.9.9", "login")
	require.NoError(t, err)
	assert.False(t, exceeded)
}
