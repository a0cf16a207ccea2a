package ai

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter gates outbound language-model requests.
type RateLimiter interface {
	// Wait blocks until a request can proceed or the context is cancelled.
	Wait(ctx context.Context) error

	// Limit returns the configured rate in requests per minute.
	Limit() float64
}

// LocalLimiter rate-limits within a single process using a token bucket.
type LocalLimiter struct {
	limiter      *rate.Limiter
	reqPerMinute float64
}

// NewLocalLimiter creates a limiter allowing reqPerMinute requests, with a
// burst of roughly one tenth of the rate.
func NewLocalLimiter(reqPerMinute float64) *LocalLimiter {
	burst := int(reqPerMinute / 10)
	if burst < 1 {
		burst = 1
	}

	return &LocalLimiter{
		limiter:      rate.NewLimiter(rate.Limit(reqPerMinute/60.0), burst),
		reqPerMinute: reqPerMinute,
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *LocalLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Limit returns the configured rate in requests per minute.
func (l *LocalLimiter) Limit() float64 {
	return l.reqPerMinute
}
