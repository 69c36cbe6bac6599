package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/coffeecorner/queue/cmd/queue-service/container"
	"github.com/coffeecorner/queue/cmd/queue-service/routes"
	"github.com/coffeecorner/queue/common/bootstrap"
	"github.com/coffeecorner/queue/common/server"
	"github.com/coffeecorner/queue/common/validation"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const serviceName = "queue-service"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bootstrap common components (logger, redis, bus, cache, telemetry)
	components, err := bootstrap.Setup(ctx, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap %s: %v\n", serviceName, err)
		os.Exit(1)
	}
	defer components.Shutdown(context.Background())

	// Initialize service container (all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		components.Logger.Error("failed to initialize service container", "error", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e)
	setupHealthCheck(e, components)
	routes.RegisterAll(e, serviceContainer)

	startBackground(ctx, serviceContainer)

	srv := server.New(serviceName, components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(ctx); err != nil {
		components.Logger.Error("server error", "error", err)
	}

	// stop the hub and sweepers before components shut down
	cancel()
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.NewRequestValidator()
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
}

// setupHealthCheck registers liveness and dependency health endpoints
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health/live", echo.WrapHandler(server.HealthHandler()))

	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": serviceName,
				"error":   err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": serviceName,
		})
	})
}

// startBackground starts the display hub and notification sweepers; all stop with ctx
func startBackground(ctx context.Context, c *container.Container) {
	log := c.Components.Logger

	if c.DisplayHub != nil {
		go c.DisplayHub.Run(ctx)
		if err := c.DisplaySubscriber.Start(ctx); err != nil {
			log.Error("display subscriber failed to start", "error", err)
		}
	}

	go c.Reminders.Start(ctx)
	go c.Progress.Start(ctx)
}
