package routes

import (
	"github.com/coffeecorner/queue/cmd/queue-service/container"
	"github.com/coffeecorner/queue/cmd/queue-service/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterQueueRoutes registers all queue routes
func RegisterQueueRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewQueueHandler(c.QueueService, c.Components.Logger)

	q := e.Group("/api/queue")
	{
		q.POST("/join", h.JoinQueue, writeGuards(c)...) // POST /api/queue/join
		q.GET("/status/:id", h.GetStatus)               // GET /api/queue/status/q_1a2b3c4d
		q.GET("/summary", h.Summary)                    // GET /api/queue/summary
		q.POST("/call-next/:type", h.CallNext)          // POST /api/queue/call-next/dine_in
		q.PATCH("/:id", h.PatchEntry)                   // PATCH /api/queue/q_1a2b3c4d
		q.POST("/:id/complete", h.CompleteService)      // POST /api/queue/q_1a2b3c4d/complete
		q.POST("/:id/cancel", h.CancelEntry)            // POST /api/queue/q_1a2b3c4d/cancel
		q.POST("/:id/status", h.UpdateStatus)           // POST /api/queue/q_1a2b3c4d/status
		q.POST("/:id/order-ready", h.OrderReady)        // POST /api/queue/q_1a2b3c4d/order-ready
	}
}
