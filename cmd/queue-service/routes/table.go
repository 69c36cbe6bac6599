package routes

import (
	"github.com/coffeecorner/queue/cmd/queue-service/container"
	"github.com/coffeecorner/queue/cmd/queue-service/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterTableRoutes registers table QR routes
func RegisterTableRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewTableHandler(c.QueueService, c.Components.Logger)

	tables := e.Group("/api/tables")
	{
		tables.POST("/:number/qr", h.GenerateQR)   // POST /api/tables/12/qr
		tables.POST("/:number/release", h.Release) // POST /api/tables/12/release
		tables.POST("/scan/:qr_id", h.Scan)        // POST /api/tables/scan/qr_1a2b3c4d5e6f
	}
}
