package middleware

import (
	"net/http"
	"strconv"

	"github.com/coffeecorner/queue/common/ratelimit"
	"github.com/labstack/echo/v4"
)

// ClientRateLimitMiddleware limits each client address to limit requests per minute.
// Health and metrics probes are never limited. Limiter errors fail open.
func ClientRateLimitMiddleware(rateLimiter *ratelimit.RateLimiter, limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/health" {
				return next(c)
			}

			clientID := c.RealIP()
			result, err := rateLimiter.CheckClientLimit(c.Request().Context(), clientID, limit)
			if err != nil {
				return next(c)
			}

			if !result.Allowed {
				c.Response().Header().Set("Retry-After", strconv.FormatInt(result.RetryAfterSeconds, 10))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "rate_limit_exceeded",
					"message": "Too many requests. Please wait before trying again.",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"window":              "60 seconds",
						"current_count":       result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
