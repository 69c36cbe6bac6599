package cache

import (
	"context"
	"testing"
	"time"

	"github.com/coffeecorner/queue/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(logger.Discard())
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "idem:abc", []byte("resp"), time.Minute))

	val, ok, err := c.Get(ctx, "idem:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("resp"), val)

	require.NoError(t, c.Delete(ctx, "idem:abc"))
	_, ok, _ = c.Get(ctx, "idem:abc")
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(logger.Discard())
	defer c.Close()
	ctx := context.Background()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(2 * time.Minute)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, c.sweep())
	assert.Equal(t, 0, c.Stats()["entries"])
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	c := NewMemoryCache(logger.Discard())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
}
