package handlers

import (
	"errors"
	"net/http"

	"github.com/coffeecorner/queue/cmd/queue-service/service"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/labstack/echo/v4"
)

// errorStatus maps service errors to an HTTP status and error code
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrQueueEmpty):
		return http.StatusNotFound, "queue_empty"
	case errors.Is(err, service.ErrSlotUnavailable):
		return http.StatusConflict, "slot_unavailable"
	case errors.Is(err, service.ErrQueueFull):
		return http.StatusConflict, "queue_full"
	case errors.Is(err, service.ErrNoTableAvailable):
		return http.StatusConflict, "no_table_available"
	case errors.Is(err, service.ErrInvalidPatch):
		return http.StatusBadRequest, "invalid_patch"
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidQueueType),
		errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondError(c echo.Context, log *logger.Logger, err error) error {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID)).
			ErrorContext(c.Request().Context(), "request failed", "path", c.Path(), "error", err)
	}
	return c.JSON(status, map[string]interface{}{
		"error":   code,
		"message": err.Error(),
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"error":   "invalid_request",
		"message": message,
	})
}
