package handlers

import (
	"net/http"
	"strconv"

	"github.com/coffeecorner/queue/cmd/queue-service/service"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/labstack/echo/v4"
)

// TableHandler handles table QR requests
type TableHandler struct {
	svc *service.VirtualQueueService
	log *logger.Logger
}

// NewTableHandler creates a new table handler
func NewTableHandler(svc *service.VirtualQueueService, log *logger.Logger) *TableHandler {
	return &TableHandler{
		svc: svc,
		log: log,
	}
}

// GenerateQR opens a QR ordering session for a table
// POST /api/tables/:number/qr
func (h *TableHandler) GenerateQR(c echo.Context) error {
	table, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return badRequest(c, "table number must be an integer")
	}

	qrID, dataURL, err := h.svc.GenerateTableQR(table)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"qr_id":        qrID,
		"table_number": table,
		"qr_code":      dataURL,
	})
}

// Release frees a table by number
// POST /api/tables/:number/release
func (h *TableHandler) Release(c echo.Context) error {
	table, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return badRequest(c, "table number must be an integer")
	}

	released, err := h.svc.ReleaseTable(c.Request().Context(), table)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"table_number": table,
		"released":     released,
	})
}

type scanRequest struct {
	SessionID string `json:"session_id" validate:"max=100"`
}

// Scan records a QR scan and returns the table welcome
// POST /api/tables/scan/:qr_id
func (h *TableHandler) Scan(c echo.Context) error {
	var req scanRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid request body: "+err.Error())
		}
		if err := c.Validate(&req); err != nil {
			return badRequest(c, err.Error())
		}
	}

	welcome, err := h.svc.ScanTableQR(c.Param("qr_id"), req.SessionID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, welcome)
}
