package handlers

import (
	"net/http"

	"github.com/coffeecorner/queue/cmd/queue-service/service"
	"github.com/labstack/echo/v4"
)

// AnalyticsHandler serves the operator dashboard
type AnalyticsHandler struct {
	svc *service.VirtualQueueService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc *service.VirtualQueueService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Analytics returns the dashboard snapshot
// GET /api/analytics
func (h *AnalyticsHandler) Analytics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Analytics())
}

// Status returns the service status probe
// GET /api/status
func (h *AnalyticsHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Status())
}
