package bootstrap

import (
	"context"
	"fmt"

	"github.com/coffeecorner/queue/common/bus"
	"github.com/coffeecorner/queue/common/cache"
	"github.com/coffeecorner/queue/common/config"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/coffeecorner/queue/common/redis"
	"github.com/coffeecorner/queue/common/telemetry"
)

// Setup initializes all service components
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Components, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	components := &Components{
		cleanupFuncs: make([]func() error, 0),
	}

	// 1. Load configuration
	var err error
	if options.customConfig != nil {
		components.Config = options.customConfig
	} else {
		components.Config, err = config.Load(serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := components.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 2. Initialize logger
	if options.customLogger != nil {
		components.Logger = options.customLogger
	} else {
		components.Logger = logger.New(logger.Options{
			Level:   components.Config.Service.LogLevel,
			Format:  components.Config.Service.LogFormat,
			Service: serviceName,
			Stacks:  components.Config.Service.Environment != "production",
		})
	}

	components.Logger.Info("initializing service",
		"service", serviceName,
		"environment", components.Config.Service.Environment,
	)

	// 3. Initialize redis (if enabled)
	if !options.skipRedis && components.Config.Redis.Enabled {
		components.Logger.Info("connecting to redis", "addr", components.Config.RedisAddr())

		raw := redis.NewRaw(redis.Options{
			URL:      components.Config.Redis.URL,
			Addr:     components.Config.RedisAddr(),
			Password: components.Config.Redis.Password,
			DB:       components.Config.Redis.DB,
		})
		components.Redis = redis.NewClient(raw, components.Logger)

		if err := components.Redis.Health(ctx); err != nil {
			raw.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		components.addCleanup(func() error {
			components.Logger.Info("closing redis connection")
			return components.Redis.Close()
		})
	}

	// 4. Initialize bus (if not skipped)
	if !options.skipBus {
		components.Logger.Info("initializing bus", "type", components.Config.Bus.Type)

		switch components.Config.Bus.Type {
		case "memory":
			components.Bus = bus.NewMemoryBus(components.Logger)
		case "redis":
			if components.Redis == nil {
				components.Shutdown(ctx)
				return nil, fmt.Errorf("redis bus requires redis to be enabled")
			}
			components.Bus = bus.NewRedisBus(components.Redis, components.Config.Bus.ChannelPrefix, components.Logger)
		default:
			components.Shutdown(ctx)
			return nil, fmt.Errorf("unknown bus type: %s", components.Config.Bus.Type)
		}

		components.addCleanup(func() error {
			components.Logger.Info("closing bus")
			return components.Bus.Close()
		})
	}

	// 5. Initialize cache (if not skipped)
	if !options.skipCache && components.Config.Cache.Enabled {
		components.Logger.Info("initializing idempotency cache", "ttl", components.Config.Cache.DefaultTTL)

		components.Cache = cache.NewMemoryCache(components.Logger)

		components.addCleanup(func() error {
			components.Logger.Info("closing cache")
			return components.Cache.Close()
		})
	}

	// 6. Initialize telemetry (if not skipped)
	tcfg := components.Config.Telemetry
	if !options.skipTelemetry && (tcfg.EnablePprof || tcfg.EnableMetrics) {
		components.Logger.Info("initializing telemetry")
		components.Telemetry = telemetry.New(
			tcfg.EnablePprof,
			tcfg.PprofPort,
			tcfg.EnableMetrics,
			tcfg.MetricsPort,
			components.Logger,
		)

		if err := components.Telemetry.Start(ctx); err != nil {
			components.Logger.Warn("failed to start telemetry", "error", err)
		}

		components.addCleanup(func() error {
			return components.Telemetry.Shutdown(context.Background())
		})
	}

	components.Logger.Info("service initialization complete",
		"service", serviceName,
		"redis", components.Redis != nil,
		"bus", components.Bus != nil,
		"cache", components.Cache != nil,
		"telemetry", components.Telemetry != nil,
	)

	return components, nil
}

// MustSetup is like Setup but panics on error
func MustSetup(ctx context.Context, serviceName string, opts ...Option) *Components {
	components, err := Setup(ctx, serviceName, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to setup service %s: %v", serviceName, err))
	}
	return components
}
