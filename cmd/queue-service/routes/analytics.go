package routes

import (
	"github.com/coffeecorner/queue/cmd/queue-service/container"
	"github.com/coffeecorner/queue/cmd/queue-service/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterAnalyticsRoutes registers dashboard and status routes
func RegisterAnalyticsRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewAnalyticsHandler(c.QueueService)

	e.GET("/api/analytics", h.Analytics) // GET /api/analytics
	e.GET("/api/status", h.Status)       // GET /api/status
}
