package routes

import (
	"github.com/coffeecorner/queue/cmd/queue-service/container"
	"github.com/coffeecorner/queue/cmd/queue-service/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterAppointmentRoutes registers all appointment routes
func RegisterAppointmentRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewAppointmentHandler(c.QueueService, c.Components.Logger)

	apt := e.Group("/api/appointments")
	{
		apt.POST("/book", h.Book, writeGuards(c)...) // POST /api/appointments/book
		apt.GET("/slots", h.Slots)                   // GET /api/appointments/slots?date=2026-03-02&duration=60
		apt.GET("/today", h.Today)                   // GET /api/appointments/today
		apt.GET("/:id", h.Get)                       // GET /api/appointments/apt_1a2b3c4d
		apt.POST("/:id/cancel", h.Cancel)            // POST /api/appointments/apt_1a2b3c4d/cancel
	}
}
