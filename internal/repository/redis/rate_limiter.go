package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter backed by Redis. Window state
// lives entirely in Redis, so multiple collector instances share one
// budget per key.
type RateLimiter struct {
	client *redis.Client
	window time.Duration
	max    int
}

func NewRateLimiter(client *redis.Client, window time.Duration, maxRequests int) *RateLimiter {
	return &RateLimiter{
		client: client,
		window: window,
		max:    maxRequests,
	}
}

// Allow consumes one request from the window budget for key. It returns
// false when the budget is exhausted.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s", key)

	pipe := r.client.TxPipeline()
	count := pipe.Incr(ctx, bucket)
	pipe.ExpireNX(ctx, bucket, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to consume rate limit budget: %w", err)
	}

	return count.Val() <= int64(r.max), nil
}
