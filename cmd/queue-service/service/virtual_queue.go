package service

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/coffeecorner/queue/common/config"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/coffeecorner/queue/common/metrics"
	"github.com/coffeecorner/queue/common/validation"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-playground/validator/v10"
)

// Settings are the service-level knobs outside the manager
type Settings struct {
	ShopName          string
	BaseURL           string
	DefaultPrepTime   int // minutes
	QRSessionTTL      time.Duration
	ReminderTolerance time.Duration
	Location          *time.Location
}

// SettingsFrom extracts service settings from config
func SettingsFrom(cfg *config.Config) (Settings, error) {
	loc, err := time.LoadLocation(cfg.Shop.Timezone)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load shop timezone: %w", err)
	}

	return Settings{
		ShopName:          cfg.Shop.Name,
		BaseURL:           cfg.Service.BaseURL,
		DefaultPrepTime:   cfg.Queue.DefaultPrepTime,
		QRSessionTTL:      cfg.Queue.QRSessionTTL,
		ReminderTolerance: cfg.Scheduling.ReminderTolerance,
		Location:          loc,
	}, nil
}

// VirtualQueueService wraps the QueueManager with notification side effects,
// appointment booking and table QR sessions. Notifications are always sent
// after the manager lock is released.
type VirtualQueueService struct {
	manager  *QueueManager
	notifier *Notifier
	rules    *PriorityRules
	patches  *validation.PatchValidator
	validate *validator.Validate
	settings Settings
	log      *logger.Logger
	now      func() time.Time

	qrMu       sync.Mutex
	qrSessions map[string]*models.QRSession
}

// NewVirtualQueueService wires the service
func NewVirtualQueueService(manager *QueueManager, notifier *Notifier, rules *PriorityRules, settings Settings, log *logger.Logger) *VirtualQueueService {
	return &VirtualQueueService{
		manager:    manager,
		notifier:   notifier,
		rules:      rules,
		patches:    validation.NewPatchValidator(models.EditablePaths...),
		validate:   validator.New(),
		settings:   settings,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
		qrSessions: make(map[string]*models.QRSession),
	}
}

// Manager exposes the underlying queue manager
func (s *VirtualQueueService) Manager() *QueueManager {
	return s.manager
}

// SetClock replaces the time source of the service and its manager
func (s *VirtualQueueService) SetClock(now func() time.Time) {
	s.now = now
	s.manager.SetClock(now)
}

// JoinQueue creates an entry, enqueues it and sends queue_joined
func (s *VirtualQueueService) JoinQueue(ctx context.Context, req models.JoinRequest) (*models.QueueEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.OrderValue.IsNegative() {
		return nil, fmt.Errorf("%w: order_value must not be negative", ErrInvalidRequest)
	}

	entry := &models.QueueEntry{
		QueueID:             models.NewQueueID(),
		SessionID:           req.SessionID,
		CustomerID:          req.CustomerID,
		QueueType:           req.QueueType,
		Status:              models.StatusWaiting,
		Priority:            s.rules.Resolve(&req),
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		CustomerEmail:       req.CustomerEmail,
		PartySize:           req.PartySize,
		OrderID:             req.OrderID,
		HasOrder:            req.OrderID != "",
		OrderValue:          req.OrderValue,
		EstimatedPrepTime:   req.EstimatedPrepTime,
		CreatedAt:           s.now(),
		SpecialRequests:     req.SpecialRequests,
		AccessibilityNeeds:  nonNil(req.AccessibilityNeeds),
		DietaryRestrictions: nonNil(req.DietaryRestrictions),
		NotificationsSent:   []models.NotificationRecord{},
		SeatingPreference:   req.SeatingPreference,
	}
	if entry.PartySize == 0 {
		entry.PartySize = 1
	}
	if entry.EstimatedPrepTime == 0 {
		entry.EstimatedPrepTime = s.settings.DefaultPrepTime
	}
	entry.SetNotificationMethods()

	joined, err := s.manager.Join(entry)
	if err != nil {
		metrics.TrackQueueOperation("join", "rejected")
		return nil, err
	}
	metrics.TrackQueueOperation("join", "ok")
	s.observe()

	wait := joined.EstimatedWait(joined.CurrentPosition-1, s.manager.AverageServiceTime())
	metrics.ObserveWaitEstimate(joined.QueueType.String(), wait)

	s.notifyEntry(ctx, joined, models.QueueJoined{
		Name:        joined.CustomerName,
		Position:    joined.CurrentPosition,
		WaitMinutes: wait,
	})

	s.log.WithQueueID(joined.QueueID).Info("customer joined queue",
		"queue_type", joined.QueueType,
		"position", joined.CurrentPosition,
		"priority", joined.Priority,
	)
	return joined, nil
}

// GetQueueStatus returns the customer-facing status of an entry
func (s *VirtualQueueService) GetQueueStatus(id string) (*models.QueueStatusView, error) {
	return s.manager.Status(id)
}

// GetEntry returns a snapshot of an entry
func (s *VirtualQueueService) GetEntry(id string) (*models.QueueEntry, error) {
	return s.manager.Entry(id)
}

// CallNextCustomer calls the front of qt and sends your_turn.
// Dine-in customers are called and seated atomically.
func (s *VirtualQueueService) CallNextCustomer(ctx context.Context, qt models.QueueType) (*models.QueueEntry, error) {
	var (
		entry *models.QueueEntry
		table *int
		err   error
	)

	if qt == models.QueueDineIn {
		entry, table, err = s.manager.CallNextAndSeat(qt)
	} else {
		entry, err = s.manager.CallNextCustomer(qt)
	}
	if err != nil {
		metrics.TrackQueueOperation("call_next", "empty")
		return nil, err
	}
	metrics.TrackQueueOperation("call_next", "ok")
	s.observe()

	if qt == models.QueueDineIn && table == nil {
		s.log.WithQueueID(entry.QueueID).Warn("no table available, serving at the counter")
	}

	s.notifyEntry(ctx, entry, models.YourTurn{Name: entry.CustomerName, Table: table})

	s.log.WithQueueID(entry.QueueID).Info("called customer", "queue_type", qt, "table", table)
	return entry, nil
}

// CompleteService removes the entry as completed and frees its table
func (s *VirtualQueueService) CompleteService(ctx context.Context, id string) (*models.QueueEntry, error) {
	entry, err := s.manager.CompleteService(id, nil)
	if err != nil {
		return nil, err
	}
	metrics.TrackQueueOperation("complete", "ok")
	s.observe()

	s.log.WithQueueID(id).Info("completed service", "elapsed_minutes", entry.ElapsedWait(s.now()))
	return entry, nil
}

// ReleaseTable frees a table by number, detaching it from any seated entry.
// Reports false when the table was already free.
func (s *VirtualQueueService) ReleaseTable(ctx context.Context, table int) (bool, error) {
	if table < 1 || table > s.manager.TotalTables() {
		return false, fmt.Errorf("%w: table %d", ErrNotFound, table)
	}

	released := s.manager.ReleaseTable(table)
	if released {
		metrics.TrackQueueOperation("release_table", "ok")
		s.observe()
		s.log.WithTable(table).InfoContext(ctx, "released table")
	}
	return released, nil
}

// CancelQueueEntry removes the entry as cancelled; false when it is unknown
func (s *VirtualQueueService) CancelQueueEntry(ctx context.Context, id, reason string) bool {
	if reason == "" {
		reason = "customer_request"
	}

	_, err := s.manager.CancelEntry(id)
	if err != nil {
		return false
	}
	metrics.TrackQueueOperation("cancel", "ok")
	s.observe()

	s.log.WithQueueID(id).Info("cancelled queue entry", "reason", reason)
	return true
}

// UpdateEntryStatus moves an entry to preparing, ready or no_show
func (s *VirtualQueueService) UpdateEntryStatus(ctx context.Context, id string, status models.QueueStatus) (*models.QueueEntry, error) {
	entry, err := s.manager.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}
	metrics.TrackQueueOperation("status_"+string(status), "ok")
	s.observe()

	s.log.WithQueueID(id).Info("updated entry status", "status", status)
	return entry, nil
}

// NotifyOrderReady marks the entry ready and sends order_ready
func (s *VirtualQueueService) NotifyOrderReady(ctx context.Context, id string) (*models.QueueEntry, error) {
	entry, err := s.manager.UpdateStatus(id, models.StatusReady)
	if err != nil {
		return nil, err
	}

	s.notifyEntry(ctx, entry, models.OrderReady{Name: entry.CustomerName})
	return entry, nil
}

// PatchEntry applies an RFC 6902 patch to the entry's editable fields
func (s *VirtualQueueService) PatchEntry(ctx context.Context, id string, rawPatch []byte) (*models.QueueEntry, error) {
	var ops []map[string]interface{}
	if err := json.Unmarshal(rawPatch, &ops); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if err := s.patches.ValidateOperations(ops); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	patch, err := jsonpatch.DecodePatch(rawPatch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	entry, err := s.manager.Update(id, func(e *models.QueueEntry) error {
		doc, err := json.Marshal(models.EditableFieldsOf(e))
		if err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}

		patched, err := patch.Apply(doc)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
		}

		var fields models.EditableFields
		if err := json.Unmarshal(patched, &fields); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
		}
		if err := s.validate.Struct(fields); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}

		fields.ApplyTo(e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithQueueID(id).Info("patched queue entry", "operations", len(ops))
	return entry, nil
}

// UpdateQueueProgress sends queue_progress and ready_soon notices; returns how many were sent
func (s *VirtualQueueService) UpdateQueueProgress(ctx context.Context) int {
	due := s.manager.dueProgress()
	for _, n := range due {
		if err := s.notifier.NotifyEntry(ctx, n.entry, n.event); err != nil {
			s.log.WithQueueID(n.entry.QueueID).Warn("progress notification failed", "error", err)
		}
	}
	return len(due)
}

// Summary returns the queue summary
func (s *VirtualQueueService) Summary() models.QueueSummary {
	return s.manager.Summary()
}

// ScheduleAppointment books a confirmed appointment and sends appointment_confirmed
func (s *VirtualQueueService) ScheduleAppointment(ctx context.Context, req models.BookRequest) (*models.Appointment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	apt := &models.Appointment{
		AppointmentID:        models.NewAppointmentID(),
		QueueEntryID:         req.QueueEntryID,
		AppointmentType:      req.AppointmentType,
		ScheduledTime:        req.ScheduledTime,
		DurationMinutes:      req.DurationMinutes,
		OrganizerName:        req.OrganizerName,
		OrganizerPhone:       req.OrganizerPhone,
		OrganizerEmail:       req.OrganizerEmail,
		ParticipantCount:     req.ParticipantCount,
		ParticipantNames:     nonNil(req.ParticipantNames),
		SeatingPreference:    req.SeatingPreference,
		AtmospherePreference: req.AtmospherePreference,
		SpecialRequirements:  req.SpecialRequirements,
		CreatedAt:            s.now(),
		Status:               models.AppointmentPending,
	}
	if apt.DurationMinutes == 0 {
		apt.DurationMinutes = 60
	}
	if apt.ParticipantCount == 0 {
		apt.ParticipantCount = 2
	}

	booked, err := s.manager.ScheduleAppointment(apt)
	if err != nil {
		metrics.TrackAppointment(string(req.AppointmentType), "unavailable")
		return nil, err
	}
	metrics.TrackAppointment(string(req.AppointmentType), "confirmed")

	if err := s.notifier.NotifyAppointment(ctx, booked, models.AppointmentConfirmedNotice{
		Type: booked.AppointmentType,
		Time: booked.ScheduledTime,
	}); err != nil {
		s.log.WithAppointmentID(booked.AppointmentID).Warn("confirmation failed", "error", err)
	}

	s.log.WithAppointmentID(booked.AppointmentID).Info("scheduled appointment",
		"type", booked.AppointmentType,
		"scheduled_time", booked.ScheduledTime,
		"duration_minutes", booked.DurationMinutes,
	)
	return booked, nil
}

// AvailableSlots yields free start times on date for an appointment of the given length.
// Every appointment type shares one book, so the type does not narrow the result.
func (s *VirtualQueueService) AvailableSlots(date time.Time, _ models.AppointmentType, durationMinutes int) iter.Seq[time.Time] {
	if durationMinutes <= 0 {
		durationMinutes = 60
	}
	return s.manager.AvailableSlots(date, durationMinutes)
}

// AvailableSlotList collects AvailableSlots; empty rather than nil when the day is full
func (s *VirtualQueueService) AvailableSlotList(date time.Time, aptType models.AppointmentType, durationMinutes int) []time.Time {
	slots := slices.Collect(s.AvailableSlots(date, aptType, durationMinutes))
	if slots == nil {
		slots = []time.Time{}
	}
	return slots
}

// GetAppointment returns one appointment by id
func (s *VirtualQueueService) GetAppointment(id string) (*models.Appointment, error) {
	return s.manager.Appointment(id)
}

// CancelAppointment cancels a booking, freeing its slot
func (s *VirtualQueueService) CancelAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	apt, err := s.manager.CancelAppointment(id)
	if err != nil {
		return nil, err
	}
	metrics.TrackAppointment(string(apt.AppointmentType), "cancelled")
	s.log.WithAppointmentID(id).Info("cancelled appointment")
	return apt, nil
}

// AppointmentsToday lists appointments on the current day in the shop's timezone
func (s *VirtualQueueService) AppointmentsToday() []*models.Appointment {
	return s.manager.AppointmentsOn(s.localNow())
}

// Location is the shop's timezone
func (s *VirtualQueueService) Location() *time.Location {
	if s.settings.Location == nil {
		return time.UTC
	}
	return s.settings.Location
}

func (s *VirtualQueueService) localNow() time.Time {
	return s.now().In(s.Location())
}

// ProcessAppointmentReminders sends due 24h and 1h reminders; returns how many were sent
func (s *VirtualQueueService) ProcessAppointmentReminders(ctx context.Context) int {
	due := s.manager.dueReminders(s.settings.ReminderTolerance)
	for _, r := range due {
		if err := s.notifier.NotifyAppointment(ctx, r.appointment, r.event); err != nil {
			s.log.WithAppointmentID(r.appointment.AppointmentID).Warn("reminder failed", "error", err)
		}
	}
	return len(due)
}

func (s *VirtualQueueService) notifyEntry(ctx context.Context, entry *models.QueueEntry, ev models.NotificationEvent) {
	if err := s.notifier.NotifyEntry(ctx, entry, ev); err != nil {
		s.log.WithQueueID(entry.QueueID).Warn("notification failed", "kind", ev.Kind(), "error", err)
		return
	}
	s.manager.RecordNotification(entry.QueueID, ev.Kind(), "multi")
}

// observe refreshes the queue gauges
func (s *VirtualQueueService) observe() {
	for qt, n := range s.manager.QueueLengths() {
		metrics.SetQueueLength(qt.String(), n)
	}
	_, occupied := s.manager.Tables()
	metrics.SetTablesOccupied(len(occupied))
}
