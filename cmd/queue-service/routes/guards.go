package routes

import (
	"github.com/coffeecorner/queue/cmd/queue-service/container"
	"github.com/coffeecorner/queue/common/middleware"
	"github.com/labstack/echo/v4"
)

// writeGuards returns the middleware for customer-facing create endpoints:
// per-client rate limiting and Idempotency-Key replay, each when configured
func writeGuards(c *container.Container) []echo.MiddlewareFunc {
	var guards []echo.MiddlewareFunc

	if c.RateLimiter != nil {
		guards = append(guards, middleware.ClientRateLimitMiddleware(c.RateLimiter, c.Components.Config.RateLimit.RequestsPerMinute))
	}
	if c.Components.Cache != nil {
		guards = append(guards, middleware.Idempotency(c.Components.Cache, c.Components.Config.Cache.DefaultTTL, c.Components.Logger))
	}

	return guards
}
