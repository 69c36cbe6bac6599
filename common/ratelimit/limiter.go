package ratelimit

import (
	"context"
	"fmt"
	"time"

	rediscommon "github.com/coffeecorner/queue/common/redis"
)

// Window is the fixed counting window for client limits
const Window = time.Minute

// Counter increments a fixed-window counter
type Counter interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed           bool  // Whether the request is allowed
	CurrentCount      int64 // Current count in the window
	Limit             int64 // The limit that was checked
	RetryAfterSeconds int64 // Seconds until the limit resets (0 if allowed)
}

// RateLimiter provides per-client fixed-window rate limiting backed by Redis
type RateLimiter struct {
	counter Counter
	logger  rediscommon.Logger
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(counter Counter, logger rediscommon.Logger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		logger:  logger,
	}
}

// CheckClientLimit checks the limit for a single client address
func (r *RateLimiter) CheckClientLimit(ctx context.Context, clientID string, limit int64) (*RateLimitResult, error) {
	key := fmt.Sprintf("rate_limit:client:%s", clientID)
	return r.checkLimit(ctx, key, limit, Window)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error) {
	count, ttl, err := r.counter.IncrementWindow(ctx, key, window)
	if err != nil {
		r.logger.Error("rate limit check failed", "key", key, "error", err)
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	result := &RateLimitResult{
		Allowed:      count <= limit,
		CurrentCount: count,
		Limit:        limit,
	}

	if !result.Allowed {
		retry := int64(ttl / time.Second)
		if retry <= 0 {
			retry = int64(window / time.Second)
		}
		result.RetryAfterSeconds = retry
		r.logger.Warn("rate limit exceeded", "key", key, "count", count, "limit", limit)
	} else {
		r.logger.Debug("rate limit check passed", "key", key, "count", count, "limit", limit)
	}

	return result, nil
}
