package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/coffeecorner/queue/common/bus"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/coffeecorner/queue/common/metrics"
)

// DisplayTopic is the bus topic in-store displays subscribe to
const DisplayTopic = "display"

type messageBuilder func(ev models.NotificationEvent, shop string) string

var messageBuilders = map[models.NotificationKind]messageBuilder{
	models.KindQueueJoined: func(ev models.NotificationEvent, _ string) string {
		e := ev.(models.QueueJoined)
		return fmt.Sprintf("Hi %s! You're #%d in line. Estimated wait: %d minutes. We'll notify you when it's your turn!",
			e.Name, e.Position, e.WaitMinutes)
	},
	models.KindQueueProgress: func(ev models.NotificationEvent, _ string) string {
		e := ev.(models.QueueProgress)
		return fmt.Sprintf("Hi %s! You've moved up to #%d in line. Estimated wait: %d minutes.",
			e.Name, e.Position, e.WaitMinutes)
	},
	models.KindReadySoon: func(ev models.NotificationEvent, _ string) string {
		e := ev.(models.ReadySoon)
		return fmt.Sprintf("Hi %s! You're next in line! Please be ready, we'll call you in about 2-3 minutes.", e.Name)
	},
	models.KindYourTurn: func(ev models.NotificationEvent, _ string) string {
		e := ev.(models.YourTurn)
		if e.Table == nil {
			return fmt.Sprintf("Hi %s! It's your turn! Please come to the counter.", e.Name)
		}
		return fmt.Sprintf("Hi %s! Your table is ready! Please come to the front desk. Table #%d.", e.Name, *e.Table)
	},
	models.KindOrderReady: func(ev models.NotificationEvent, _ string) string {
		e := ev.(models.OrderReady)
		return fmt.Sprintf("Hi %s! Your order is ready for pickup. Please come to the counter when convenient.", e.Name)
	},
	models.KindAppointmentConfirmed: func(ev models.NotificationEvent, _ string) string {
		e := ev.(models.AppointmentConfirmedNotice)
		return fmt.Sprintf("Your %s appointment is confirmed for %s. We'll send reminders as the time approaches!",
			e.Type.Title(), e.Time.Format("January 02 at 03:04 PM"))
	},
	models.KindAppointmentReminder24h: func(ev models.NotificationEvent, shop string) string {
		e := ev.(models.AppointmentReminder24h)
		return fmt.Sprintf("Reminder: Your %s appointment at %s is tomorrow at %s. See you then!",
			e.Type.Title(), shop, e.Time.Format("03:04 PM"))
	},
	models.KindAppointmentReminder1h: func(ev models.NotificationEvent, _ string) string {
		e := ev.(models.AppointmentReminder1h)
		return fmt.Sprintf("Your %s appointment is in 1 hour at %s. We're looking forward to seeing you!",
			e.Type.Title(), e.Time.Format("03:04 PM"))
	},
}

// RenderMessage formats the customer-facing text of ev
func RenderMessage(ev models.NotificationEvent, shop string) (string, error) {
	build, ok := messageBuilders[ev.Kind()]
	if !ok {
		return "", fmt.Errorf("no message builder for %s", ev.Kind())
	}
	return build(ev, shop), nil
}

// Notifier renders events and dispatches them per delivery method.
// SMS and email are logged; displays receive the message over the bus.
type Notifier struct {
	bus  bus.Bus
	log  *logger.Logger
	shop string
	now  func() time.Time
}

// NewNotifier creates a notifier; b may be nil when no display is attached
func NewNotifier(b bus.Bus, shop string, log *logger.Logger) *Notifier {
	return &Notifier{
		bus:  b,
		log:  log.WithComponent("notifier"),
		shop: shop,
		now:  time.Now,
	}
}

// NotifyEntry sends ev through every method configured on the entry
func (n *Notifier) NotifyEntry(ctx context.Context, entry *models.QueueEntry, ev models.NotificationEvent) error {
	message, err := RenderMessage(ev, n.shop)
	if err != nil {
		return err
	}

	log := n.log.WithQueueID(entry.QueueID)
	for _, method := range entry.NotificationMethods {
		switch method {
		case models.MethodSMS:
			if entry.CustomerPhone != "" {
				n.sendSMS(log, entry.CustomerPhone, ev.Kind(), message)
			}
		case models.MethodEmail:
			if entry.CustomerEmail != "" {
				n.sendEmail(log, entry.CustomerEmail, ev.Kind(), message)
			}
		case models.MethodInStoreDisplay:
			if err := n.updateDisplay(ctx, entry, ev.Kind(), message); err != nil {
				log.Warn("display update failed", "kind", ev.Kind(), "error", err)
			}
		}
	}
	return nil
}

// NotifyAppointment sends ev to the organizer's phone and email
func (n *Notifier) NotifyAppointment(ctx context.Context, apt *models.Appointment, ev models.NotificationEvent) error {
	message, err := RenderMessage(ev, n.shop)
	if err != nil {
		return err
	}

	log := n.log.WithAppointmentID(apt.AppointmentID)
	if apt.OrganizerPhone != "" {
		n.sendSMS(log, apt.OrganizerPhone, ev.Kind(), message)
	}
	if apt.OrganizerEmail != "" {
		n.sendEmail(log, apt.OrganizerEmail, ev.Kind(), message)
	}
	if apt.OrganizerPhone == "" && apt.OrganizerEmail == "" {
		log.Debug("appointment has no contact details", "kind", ev.Kind())
	}
	return nil
}

func (n *Notifier) sendSMS(log *logger.Logger, phone string, kind models.NotificationKind, message string) {
	log.Info("sms notification", "to", phone, "kind", kind, "message", message)
	metrics.TrackNotification(string(kind), string(models.MethodSMS))
}

func (n *Notifier) sendEmail(log *logger.Logger, email string, kind models.NotificationKind, message string) {
	log.Info("email notification", "to", email, "kind", kind, "message", message)
	metrics.TrackNotification(string(kind), string(models.MethodEmail))
}

func (n *Notifier) updateDisplay(ctx context.Context, entry *models.QueueEntry, kind models.NotificationKind, message string) error {
	if n.bus == nil {
		return nil
	}

	payload, err := json.Marshal(models.DisplayMessage{
		QueueID:   entry.QueueID,
		QueueType: entry.QueueType,
		Kind:      kind,
		Message:   message,
		SentAt:    n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode display message: %w", err)
	}

	if err := n.bus.Publish(ctx, DisplayTopic, entry.QueueID, payload); err != nil {
		return err
	}
	metrics.TrackNotification(string(kind), string(models.MethodInStoreDisplay))
	return nil
}
