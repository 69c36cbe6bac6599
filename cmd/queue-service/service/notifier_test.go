package service

import (
	"context"
	"testing"
	"time"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMessage(t *testing.T) {
	table := 4
	when := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		ev   models.NotificationEvent
		want string
	}{
		{
			"joined",
			models.QueueJoined{Name: "Sam", Position: 3, WaitMinutes: 15},
			"Hi Sam! You're #3 in line. Estimated wait: 15 minutes. We'll notify you when it's your turn!",
		},
		{
			"progress",
			models.QueueProgress{Name: "Sam", Position: 1, WaitMinutes: 5},
			"Hi Sam! You've moved up to #1 in line. Estimated wait: 5 minutes.",
		},
		{
			"your turn with table",
			models.YourTurn{Name: "Sam", Table: &table},
			"Hi Sam! Your table is ready! Please come to the front desk. Table #4.",
		},
		{
			"your turn at counter",
			models.YourTurn{Name: "Sam"},
			"Hi Sam! It's your turn! Please come to the counter.",
		},
		{
			"confirmed",
			models.AppointmentConfirmedNotice{Type: models.AppointmentCoffeeMeeting, Time: when},
			"Your Coffee Meeting appointment is confirmed for March 02 at 03:30 PM. We'll send reminders as the time approaches!",
		},
		{
			"reminder 24h",
			models.AppointmentReminder24h{Type: models.AppointmentStudySession, Time: when},
			"Reminder: Your Study Session appointment at Coffee Corner is tomorrow at 03:30 PM. See you then!",
		},
		{
			"reminder 1h",
			models.AppointmentReminder1h{Type: models.AppointmentCoffeeDate, Time: when},
			"Your Coffee Date appointment is in 1 hour at 03:30 PM. We're looking forward to seeing you!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderMessage(tt.ev, "Coffee Corner")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type unknownEvent struct{}

func (unknownEvent) Kind() models.NotificationKind { return "carrier_pigeon" }

func TestRenderMessage_UnknownKind(t *testing.T) {
	_, err := RenderMessage(unknownEvent{}, "Coffee Corner")
	assert.Error(t, err)
}

func TestNotifier_WithoutBus(t *testing.T) {
	n := NewNotifier(nil, "Coffee Corner", logger.Discard())
	entry := &models.QueueEntry{QueueID: "q_1", CustomerName: "Sam", CustomerEmail: "sam@example.com"}
	entry.SetNotificationMethods()

	assert.NoError(t, n.NotifyEntry(context.Background(), entry, models.ReadySoon{Name: "Sam"}))
	assert.NoError(t, n.NotifyAppointment(context.Background(), &models.Appointment{AppointmentID: "apt_1"},
		models.AppointmentReminder1h{Type: models.AppointmentPickupOrder, Time: time.Now()}))
}
