package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueType_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]QueueType{"t": QueueDineIn})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"dine_in"}`, string(b))

	var out struct {
		T QueueType `json:"t"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"t":"takeaway"}`), &out))
	assert.Equal(t, QueueTakeaway, out.T)

	assert.Error(t, json.Unmarshal([]byte(`{"t":"drive_thru"}`), &out))
}

func TestParseQueueType(t *testing.T) {
	for _, qt := range AllQueueTypes() {
		parsed, err := ParseQueueType(qt.String())
		require.NoError(t, err)
		assert.Equal(t, qt, parsed)
	}
	_, err := ParseQueueType("nope")
	assert.Error(t, err)
	assert.False(t, QueueType(99).Valid())
}

func TestIDs(t *testing.T) {
	assert.Regexp(t, `^q_[0-9a-f]{8}$`, NewQueueID())
	assert.Regexp(t, `^apt_[0-9a-f]{8}$`, NewAppointmentID())
}

func TestAppointmentType_Title(t *testing.T) {
	assert.Equal(t, "Coffee Meeting", AppointmentCoffeeMeeting.Title())
	assert.Equal(t, "Pickup Order", AppointmentPickupOrder.Title())
}

func TestAppointment_Overlaps(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	apt := &Appointment{ScheduledTime: start, DurationMinutes: 60}

	assert.True(t, apt.Overlaps(start.Add(30*time.Minute), start.Add(60*time.Minute)))
	// touching intervals do not overlap
	assert.False(t, apt.Overlaps(start.Add(60*time.Minute), start.Add(90*time.Minute)))
	assert.False(t, apt.Overlaps(start.Add(-30*time.Minute), start))
}

func TestAppointment_ShouldSendReminder(t *testing.T) {
	start := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	apt := &Appointment{ScheduledTime: start}
	tol := 15 * time.Minute

	assert.True(t, apt.ShouldSendReminder(24*time.Hour, tol, start.Add(-24*time.Hour-10*time.Minute)))
	assert.False(t, apt.ShouldSendReminder(24*time.Hour, tol, start.Add(-24*time.Hour-15*time.Minute)))
	assert.True(t, apt.ShouldSendReminder(time.Hour, tol, start.Add(-50*time.Minute)))
}

func TestQueueEntry_ReadyForNotification(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := &QueueEntry{}

	assert.True(t, e.ReadyForNotification(KindReadySoon, 10*time.Minute, now))
	e.RecordNotification(KindReadySoon, "multi", true, now)
	assert.False(t, e.ReadyForNotification(KindReadySoon, 10*time.Minute, now.Add(5*time.Minute)))
	assert.True(t, e.ReadyForNotification(KindQueueProgress, 5*time.Minute, now))
	assert.True(t, e.ReadyForNotification(KindReadySoon, 10*time.Minute, now.Add(11*time.Minute)))
}

func TestQueueEntry_CloneIsDeep(t *testing.T) {
	table := 4
	e := &QueueEntry{TableNumber: &table, AccessibilityNeeds: []string{"wheelchair"}}
	c := e.Clone()

	*c.TableNumber = 9
	c.AccessibilityNeeds[0] = "none"

	assert.Equal(t, 4, *e.TableNumber)
	assert.Equal(t, "wheelchair", e.AccessibilityNeeds[0])
}

func TestQRSession_Scan(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := NewQRSession(3, 8*time.Hour, now)

	assert.Regexp(t, `^qr_[0-9a-f]{12}$`, s.QRID)
	assert.True(t, s.Scan("sess-1", now.Add(time.Hour)))
	assert.True(t, s.Scan("sess-1", now.Add(2*time.Hour)))
	assert.Equal(t, 2, s.Scans)
	assert.Equal(t, []string{"sess-1"}, s.ActiveSessions)

	assert.False(t, s.Scan("sess-2", now.Add(8*time.Hour)))
}
