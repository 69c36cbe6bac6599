package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coffeecorner/queue/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	counts map[string]int64
	ttl    time.Duration
	err    error
}

func (f *fakeCounter) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.counts[key]++
	return f.counts[key], f.ttl, nil
}

func TestCheckClientLimit(t *testing.T) {
	counter := &fakeCounter{counts: map[string]int64{}, ttl: 20 * time.Second}
	limiter := NewRateLimiter(counter, logger.Discard())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.CheckClientLimit(ctx, "10.0.0.1", 3)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}

	res, err := limiter.CheckClientLimit(ctx, "10.0.0.1", 3)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(4), res.CurrentCount)
	assert.Equal(t, int64(20), res.RetryAfterSeconds)

	res, err = limiter.CheckClientLimit(ctx, "10.0.0.2", 3)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestCheckClientLimit_NoTTLFallsBackToWindow(t *testing.T) {
	counter := &fakeCounter{counts: map[string]int64{"rate_limit:client:x": 5}}
	limiter := NewRateLimiter(counter, logger.Discard())

	res, err := limiter.CheckClientLimit(context.Background(), "x", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(60), res.RetryAfterSeconds)
}

func TestCheckClientLimit_Error(t *testing.T) {
	limiter := NewRateLimiter(&fakeCounter{err: errors.New("down")}, logger.Discard())

	_, err := limiter.CheckClientLimit(context.Background(), "x", 1)
	assert.Error(t, err)
}
