package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter throttles login attempts per account, backed by Redis.
// Key format: login_attempts:<email>
type AttemptLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewAttemptLimiter creates an AttemptLimiter allowing max attempts within
// each rolling window.
func NewAttemptLimiter(client *redis.Client, max int, window time.Duration) *AttemptLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &AttemptLimiter{client: client, max: int64(max), window: window}
}

// Allow records one attempt for key and reports whether the budget still
// holds. The expiry is set when the counter is first created.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("attempt count: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("attempt expire: %w", err)
		}
	}
	return n <= l.max, nil
}

func (l *AttemptLimiter) key(email string) string {
	return "login_attempts:" + email
}
