package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Fixed window applied per IP per purpose (register, login, ...)
	defaultWindow = 15 * time.Minute
	defaultLimit  = 10
)

// Limiter is a Redis-backed fixed-window rate limiter keyed by client IP and
// request purpose. Check and Record are separate so a request that fails
// body decoding can still be counted.
type Limiter struct {
	client *redis.Client
	window time.Duration
	limit  int64
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{
		client: client,
		window: defaultWindow,
		limit:  defaultLimit,
	}
}

func ipKey(ip, purpose string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, ip)
}

// CheckIPRateLimitWithPurpose reports whether the IP has exceeded the window
// limit for the given purpose.
func (l *Limiter) CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	count, err := l.client.Get(ctx, ipKey(ip, purpose)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return count >= l.limit, nil
}

// RecordIPRequestWithPurpose counts one request against the IP's window.
// The TTL is set when the key is first created so the window is fixed, not
// sliding.
func (l *Limiter) RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error {
	key := ipKey(ip, purpose)

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}

	_ = incr // count available if callers ever need it

	return nil
}
