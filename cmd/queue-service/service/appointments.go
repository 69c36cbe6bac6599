package service

import (
	"fmt"
	"iter"
	"time"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
)

// SlotGranularity is the default step between candidate appointment starts
const SlotGranularity = 15 * time.Minute

// IsTimeSlotAvailable reports whether [start, start+duration) overlaps no live
// appointment and start falls within business hours
func (m *QueueManager) IsTimeSlotAvailable(start time.Time, durationMinutes int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.slotAvailableLocked(start, durationMinutes)
}

func (m *QueueManager) slotAvailableLocked(start time.Time, durationMinutes int) bool {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	for _, apt := range m.appointments {
		if apt.Status == models.AppointmentCancelled {
			continue
		}
		if apt.Overlaps(start, end) {
			return false
		}
	}

	if m.cfg.Location != nil {
		start = start.In(m.cfg.Location)
	}
	hour := start.Hour()
	return hour >= m.cfg.OpeningHour && hour < m.cfg.ClosingHour
}

// ScheduleAppointment books apt as confirmed when its slot is free.
// The availability check and the insert share one critical section.
func (m *QueueManager) ScheduleAppointment(apt *models.Appointment) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.slotAvailableLocked(apt.ScheduledTime, apt.DurationMinutes) {
		return nil, fmt.Errorf("%w: %s for %d minutes",
			ErrSlotUnavailable, apt.ScheduledTime.Format(time.RFC3339), apt.DurationMinutes)
	}

	now := m.now()
	if apt.AppointmentID == "" {
		apt.AppointmentID = models.NewAppointmentID()
	}
	if apt.CreatedAt.IsZero() {
		apt.CreatedAt = now
	}
	apt.Status = models.AppointmentConfirmed
	apt.ConfirmedAt = &now

	m.appointments = append(m.appointments, apt)
	return apt.Clone(), nil
}

// CancelAppointment marks the appointment cancelled, freeing its slot
func (m *QueueManager) CancelAppointment(id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, apt := range m.appointments {
		if apt.AppointmentID == id {
			apt.Status = models.AppointmentCancelled
			return apt.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
}

// Appointment returns a snapshot of one appointment
func (m *QueueManager) Appointment(id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, apt := range m.appointments {
		if apt.AppointmentID == id {
			return apt.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
}

// AvailableSlots yields free start times on date's calendar day, one per
// slot step from opening while slot+duration ends by closing. Each iteration
// re-reads the appointment book.
func (m *QueueManager) AvailableSlots(date time.Time, durationMinutes int) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		y, mo, d := date.Date()
		loc := date.Location()
		open := time.Date(y, mo, d, m.cfg.OpeningHour, 0, 0, 0, loc)
		closing := time.Date(y, mo, d, m.cfg.ClosingHour, 0, 0, 0, loc)
		duration := time.Duration(durationMinutes) * time.Minute
		step := m.cfg.SlotGranularity
		if step <= 0 {
			step = SlotGranularity
		}

		for slot := open; !slot.Add(duration).After(closing); slot = slot.Add(step) {
			if !m.IsTimeSlotAvailable(slot, durationMinutes) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// AppointmentsOn returns the appointments scheduled on date's calendar day
func (m *QueueManager) AppointmentsOn(date time.Time) []*models.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()

	y, mo, d := date.Date()
	out := make([]*models.Appointment, 0)
	for _, apt := range m.appointments {
		ay, amo, ad := apt.ScheduledTime.In(date.Location()).Date()
		if ay == y && amo == mo && ad == d {
			out = append(out, apt.Clone())
		}
	}
	return out
}

// UpcomingAppointments counts confirmed appointments starting after now
func (m *QueueManager) UpcomingAppointments() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for _, apt := range m.appointments {
		if apt.Status == models.AppointmentConfirmed && apt.ScheduledTime.After(now) {
			n++
		}
	}
	return n
}

// reminderNotice is a reminder to dispatch after the lock is released
type reminderNotice struct {
	appointment *models.Appointment
	event       models.NotificationEvent
}

// dueReminders flips the reminder flags of every confirmed appointment whose
// 24h or 1h window contains now and returns the notices to send.
// Each flag flips once, so repeated polls never resend.
func (m *QueueManager) dueReminders(tolerance time.Duration) []reminderNotice {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var due []reminderNotice
	for _, apt := range m.appointments {
		if apt.Status != models.AppointmentConfirmed {
			continue
		}

		if !apt.ReminderSent24h && apt.ShouldSendReminder(24*time.Hour, tolerance, now) {
			apt.ReminderSent24h = true
			due = append(due, reminderNotice{
				appointment: apt.Clone(),
				event:       models.AppointmentReminder24h{Type: apt.AppointmentType, Time: apt.ScheduledTime},
			})
		}

		if !apt.ReminderSent1h && apt.ShouldSendReminder(time.Hour, tolerance, now) {
			apt.ReminderSent1h = true
			due = append(due, reminderNotice{
				appointment: apt.Clone(),
				event:       models.AppointmentReminder1h{Type: apt.AppointmentType, Time: apt.ScheduledTime},
			})
		}
	}
	return due
}
