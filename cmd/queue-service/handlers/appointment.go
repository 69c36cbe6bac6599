package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/coffeecorner/queue/cmd/queue-service/service"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	svc *service.VirtualQueueService
	log *logger.Logger
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(svc *service.VirtualQueueService, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		svc: svc,
		log: log,
	}
}

// Book schedules an appointment
// POST /api/appointments/book
func (h *AppointmentHandler) Book(c echo.Context) error {
	var req models.BookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	apt, err := h.svc.ScheduleAppointment(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, apt)
}

// Slots lists free start times on a day
// GET /api/appointments/slots?date=2026-03-02&type=coffee_meeting&duration=60
func (h *AppointmentHandler) Slots(c echo.Context) error {
	date, err := time.ParseInLocation(dateLayout, c.QueryParam("date"), h.svc.Location())
	if err != nil {
		return badRequest(c, "date must be formatted as YYYY-MM-DD")
	}

	aptType := models.AppointmentCoffeeMeeting
	if raw := c.QueryParam("type"); raw != "" {
		if aptType, err = models.ParseAppointmentType(raw); err != nil {
			return badRequest(c, err.Error())
		}
	}

	duration := 60
	if raw := c.QueryParam("duration"); raw != "" {
		if duration, err = strconv.Atoi(raw); err != nil || duration < 15 || duration > 240 {
			return badRequest(c, "duration must be between 15 and 240 minutes")
		}
	}

	slots := h.svc.AvailableSlotList(date, aptType, duration)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"date":             date.Format(dateLayout),
		"appointment_type": aptType,
		"duration_minutes": duration,
		"available_slots":  slots,
	})
}

// Get returns one appointment
// GET /api/appointments/:id
func (h *AppointmentHandler) Get(c echo.Context) error {
	apt, err := h.svc.GetAppointment(c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, apt)
}

// Cancel cancels an appointment
// POST /api/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	apt, err := h.svc.CancelAppointment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, apt)
}

// Today lists today's appointments
// GET /api/appointments/today
func (h *AppointmentHandler) Today(c echo.Context) error {
	appointments := h.svc.AppointmentsToday()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}
