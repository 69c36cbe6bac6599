package handlers

import (
	"io"
	"net/http"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/coffeecorner/queue/cmd/queue-service/service"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/labstack/echo/v4"
)

// maxPatchBytes caps a JSON patch request body
const maxPatchBytes = 64 << 10

// QueueHandler handles queue requests
type QueueHandler struct {
	svc *service.VirtualQueueService
	log *logger.Logger
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(svc *service.VirtualQueueService, log *logger.Logger) *QueueHandler {
	return &QueueHandler{
		svc: svc,
		log: log,
	}
}

// JoinQueue adds a customer to a queue
// POST /api/queue/join
func (h *QueueHandler) JoinQueue(c echo.Context) error {
	var req models.JoinRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	entry, err := h.svc.JoinQueue(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"queue_entry":          entry,
		"position":             entry.CurrentPosition,
		"estimated_wait_time":  entry.EstimatedWait(entry.CurrentPosition-1, h.svc.Manager().AverageServiceTime()),
		"estimated_ready_time": entry.EstimatedReadyTime,
	})
}

// GetStatus returns the customer-facing status of an entry
// GET /api/queue/status/:id
func (h *QueueHandler) GetStatus(c echo.Context) error {
	view, err := h.svc.GetQueueStatus(c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, view)
}

// PatchEntry applies a JSON patch to an entry's editable fields
// PATCH /api/queue/:id
func (h *QueueHandler) PatchEntry(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPatchBytes))
	if err != nil {
		return badRequest(c, "failed to read request body")
	}

	entry, err := h.svc.PatchEntry(c.Request().Context(), c.Param("id"), body)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// CompleteService finishes an entry and frees its table
// POST /api/queue/:id/complete
func (h *QueueHandler) CompleteService(c echo.Context) error {
	entry, err := h.svc.CompleteService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, entry)
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

// CancelEntry removes an entry from its queue
// POST /api/queue/:id/cancel
func (h *QueueHandler) CancelEntry(c echo.Context) error {
	var req cancelRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid request body: "+err.Error())
		}
		if err := c.Validate(&req); err != nil {
			return badRequest(c, err.Error())
		}
	}

	id := c.Param("id")
	if !h.svc.CancelQueueEntry(c.Request().Context(), id, req.Reason) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error":   "not_found",
			"message": "queue entry " + id + " not found",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"queue_id":  id,
		"cancelled": true,
	})
}

type statusRequest struct {
	Status models.QueueStatus `json:"status" validate:"required,oneof=waiting called preparing ready no_show"`
}

// UpdateStatus moves an entry to another status
// POST /api/queue/:id/status
func (h *QueueHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	entry, err := h.svc.UpdateEntryStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// OrderReady marks an entry ready and notifies the customer
// POST /api/queue/:id/order-ready
func (h *QueueHandler) OrderReady(c echo.Context) error {
	entry, err := h.svc.NotifyOrderReady(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// CallNext calls the next customer of a queue
// POST /api/queue/call-next/:type
func (h *QueueHandler) CallNext(c echo.Context) error {
	qt, err := models.ParseQueueType(c.Param("type"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	entry, err := h.svc.CallNextCustomer(c.Request().Context(), qt)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"queue_entry":  entry,
		"table_number": entry.TableNumber,
	})
}

// Summary returns per-queue and overall counts
// GET /api/queue/summary
func (h *QueueHandler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Summary())
}
