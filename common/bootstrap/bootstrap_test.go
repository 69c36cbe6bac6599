package bootstrap

import (
	"context"
	"testing"

	"github.com/coffeecorner/queue/common/config"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("queue-service-test")
	require.NoError(t, err)
	cfg.Redis.Enabled = false
	cfg.Bus.Type = "memory"
	cfg.Cache.Enabled = true
	return cfg
}

func TestSetup_MemoryComponents(t *testing.T) {
	ctx := context.Background()
	c, err := Setup(ctx, "queue-service-test",
		WithCustomConfig(testConfig(t)),
		WithCustomLogger(logger.Discard()),
		WithoutTelemetry(),
	)
	require.NoError(t, err)

	assert.Nil(t, c.Redis)
	assert.NotNil(t, c.Bus)
	assert.NotNil(t, c.Cache)
	assert.Nil(t, c.Telemetry)
	assert.NoError(t, c.Health(ctx))
	assert.NoError(t, c.Shutdown(ctx))
}

func TestSetup_RedisBusWithoutRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bus.Type = "redis"

	_, err := Setup(context.Background(), "queue-service-test",
		WithCustomConfig(cfg),
		WithCustomLogger(logger.Discard()),
		WithoutTelemetry(),
	)
	assert.Error(t, err)
}

func TestSetup_SkipOptions(t *testing.T) {
	ctx := context.Background()
	c, err := Setup(ctx, "queue-service-test",
		WithCustomConfig(testConfig(t)),
		WithCustomLogger(logger.Discard()),
		WithoutBus(),
		WithoutCache(),
		WithoutTelemetry(),
	)
	require.NoError(t, err)

	assert.Nil(t, c.Bus)
	assert.Nil(t, c.Cache)
	assert.NoError(t, c.Shutdown(ctx))
}
