package routes

import (
	"github.com/coffeecorner/queue/cmd/queue-service/container"
	"github.com/labstack/echo/v4"
)

// RegisterAll registers every application route
func RegisterAll(e *echo.Echo, c *container.Container) {
	RegisterQueueRoutes(e, c)
	RegisterAppointmentRoutes(e, c)
	RegisterTableRoutes(e, c)
	RegisterAnalyticsRoutes(e, c)
	RegisterDisplayRoutes(e, c)
}
