package service

import (
	"slices"
	"testing"
	"time"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func booking(start time.Time, minutes int) *models.Appointment {
	return &models.Appointment{
		AppointmentType: models.AppointmentCoffeeMeeting,
		ScheduledTime:   start,
		DurationMinutes: minutes,
		OrganizerName:   "Dana",
	}
}

func slotList(m *QueueManager, date time.Time, minutes int) []time.Time {
	return slices.Collect(m.AvailableSlots(date, minutes))
}

func TestScheduleAppointment_RejectsOverlap(t *testing.T) {
	m := newTestManager(20)

	first, err := m.ScheduleAppointment(booking(at(9, 0), 60))
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentConfirmed, first.Status)
	assert.NotNil(t, first.ConfirmedAt)
	assert.NotEmpty(t, first.AppointmentID)

	_, err = m.ScheduleAppointment(booking(at(9, 30), 30))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = m.ScheduleAppointment(booking(at(8, 30), 31))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// touching intervals do not overlap
	_, err = m.ScheduleAppointment(booking(at(10, 0), 30))
	assert.NoError(t, err)
	_, err = m.ScheduleAppointment(booking(at(8, 0), 60))
	assert.NoError(t, err)
}

func TestIsTimeSlotAvailable_BusinessHours(t *testing.T) {
	m := newTestManager(20)

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"before opening", at(7, 45), false},
		{"at opening", at(8, 0), true},
		{"last hour", at(19, 30), true},
		{"at closing", at(20, 0), false},
		{"late night", at(23, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.IsTimeSlotAvailable(tt.start, 30))
		})
	}
}

func TestCancelAppointment_FreesSlot(t *testing.T) {
	m := newTestManager(20)

	apt, err := m.ScheduleAppointment(booking(at(14, 0), 60))
	require.NoError(t, err)
	assert.False(t, m.IsTimeSlotAvailable(at(14, 30), 15))

	cancelled, err := m.CancelAppointment(apt.AppointmentID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)
	assert.True(t, m.IsTimeSlotAvailable(at(14, 30), 15))

	_, err = m.CancelAppointment("apt_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAvailableSlots_EmptyDay(t *testing.T) {
	m := newTestManager(20)

	slots := slotList(m, at(0, 0), 60)
	require.Len(t, slots, 45)
	assert.Equal(t, at(8, 0), slots[0])
	assert.Equal(t, at(19, 0), slots[len(slots)-1])

	for i := 1; i < len(slots); i++ {
		assert.Equal(t, SlotGranularity, slots[i].Sub(slots[i-1]))
	}
	for _, s := range slots {
		assert.False(t, s.Add(time.Hour).After(at(20, 0)))
	}
}

func TestAvailableSlots_SkipsBookedTime(t *testing.T) {
	m := newTestManager(20)
	_, err := m.ScheduleAppointment(booking(at(9, 0), 60))
	require.NoError(t, err)

	slots := slotList(m, at(12, 0), 60)
	assert.Len(t, slots, 38)
	assert.Contains(t, slots, at(8, 0))
	assert.Contains(t, slots, at(10, 0))
	for _, blocked := range []time.Time{at(8, 15), at(8, 45), at(9, 0), at(9, 45)} {
		assert.NotContains(t, slots, blocked)
	}
}

func TestAvailableSlots_EarlyStop(t *testing.T) {
	m := newTestManager(20)

	var got []time.Time
	for slot := range m.AvailableSlots(at(0, 0), 30) {
		got = append(got, slot)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []time.Time{at(8, 0), at(8, 15), at(8, 30)}, got)

	// the sequence restarts from opening
	for slot := range m.AvailableSlots(at(0, 0), 30) {
		assert.Equal(t, at(8, 0), slot)
		break
	}
}

func TestAvailableSlots_TooLongForTheDay(t *testing.T) {
	m := newTestManager(20)
	assert.Empty(t, slotList(m, at(0, 0), 13*60))
}

func TestAppointmentsOn(t *testing.T) {
	m := newTestManager(20)
	_, err := m.ScheduleAppointment(booking(at(9, 0), 60))
	require.NoError(t, err)
	_, err = m.ScheduleAppointment(booking(at(9, 0).AddDate(0, 0, 1), 60))
	require.NoError(t, err)

	assert.Len(t, m.AppointmentsOn(at(18, 0)), 1)
	assert.Len(t, m.AppointmentsOn(at(18, 0).AddDate(0, 0, 2)), 0)
	assert.Equal(t, 2, m.UpcomingAppointments())
}

func TestDueReminders_FireOnce(t *testing.T) {
	m := newTestManager(20)
	start := at(15, 0).AddDate(0, 0, 1)
	_, err := m.ScheduleAppointment(booking(start, 60))
	require.NoError(t, err)

	now := start.Add(-24 * time.Hour).Add(5 * time.Minute)
	m.SetClock(func() time.Time { return now })

	due := m.dueReminders(15 * time.Minute)
	require.Len(t, due, 1)
	assert.Equal(t, models.KindAppointmentReminder24h, due[0].event.Kind())

	assert.Empty(t, m.dueReminders(15*time.Minute))

	now = start.Add(-time.Hour)
	due = m.dueReminders(15 * time.Minute)
	require.Len(t, due, 1)
	assert.Equal(t, models.KindAppointmentReminder1h, due[0].event.Kind())
	assert.True(t, due[0].appointment.ReminderSent24h)
	assert.True(t, due[0].appointment.ReminderSent1h)

	assert.Empty(t, m.dueReminders(15*time.Minute))
}

func TestDueReminders_SkipsCancelled(t *testing.T) {
	m := newTestManager(20)
	start := at(15, 0)
	apt, err := m.ScheduleAppointment(booking(start, 60))
	require.NoError(t, err)
	_, err = m.CancelAppointment(apt.AppointmentID)
	require.NoError(t, err)

	m.SetClock(func() time.Time { return start.Add(-time.Hour) })
	assert.Empty(t, m.dueReminders(15*time.Minute))
}

func TestIsTimeSlotAvailable_ShopTimezone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	cfg := DefaultManagerConfig()
	cfg.Location = loc
	m := NewQueueManager(cfg)

	// 14:00 UTC is 09:00 at the shop
	assert.True(t, m.IsTimeSlotAvailable(at(14, 0), 30))
	// 09:00 UTC is 04:00 at the shop
	assert.False(t, m.IsTimeSlotAvailable(at(9, 0), 30))
}
