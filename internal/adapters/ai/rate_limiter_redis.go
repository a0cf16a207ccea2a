package ai

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"hermes/pkg/errors"
)

// RedisLimiter enforces a shared request budget across process instances
// using a fixed one-minute window counter in Redis. When several replicas
// call the same language-model account, a local bucket is not enough.
type RedisLimiter struct {
	rdb          *redis.Client
	key          string
	reqPerMinute float64
	maxWait      time.Duration
}

// NewRedisLimiter creates a distributed limiter. key namespaces the counter
// so different capabilities can carry separate budgets.
func NewRedisLimiter(rdb *redis.Client, key string, reqPerMinute float64) *RedisLimiter {
	return &RedisLimiter{
		rdb:          rdb,
		key:          "ratelimit:" + key,
		reqPerMinute: reqPerMinute,
		maxWait:      time.Minute,
	}
}

// Wait blocks until the shared window has budget or the context is cancelled.
func (l *RedisLimiter) Wait(ctx context.Context) error {
	deadline := time.Now().Add(l.maxWait)

	for {
		allowed, err := l.tryAcquire(ctx)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.Wrapf(errors.ErrRateLimitExceeded, "no budget within %s", l.maxWait)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// tryAcquire increments the current window counter and checks the budget.
// The window key expires on its own, so a crashed instance leaks nothing.
func (l *RedisLimiter) tryAcquire(ctx context.Context) (bool, error) {
	window := time.Now().UTC().Format("200601021504")
	key := l.key + ":" + window

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Wrap(err, "redis rate limiter")
	}

	return float64(incr.Val()) <= l.reqPerMinute, nil
}

// Limit returns the configured rate in requests per minute.
func (l *RedisLimiter) Limit() float64 {
	return l.reqPerMinute
}
