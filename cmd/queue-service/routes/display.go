package routes

import (
	"github.com/coffeecorner/queue/cmd/queue-service/container"
	"github.com/labstack/echo/v4"
)

// RegisterDisplayRoutes registers the display board websocket when a bus is configured
func RegisterDisplayRoutes(e *echo.Echo, c *container.Container) {
	if c.DisplayHub == nil {
		return
	}
	e.GET("/ws/display", c.DisplayHub.HandleWebSocket) // GET /ws/display?board=dine_in
}
