package models

import "time"

// NotificationKind names a notification template
type NotificationKind string

const (
	KindQueueJoined            NotificationKind = "queue_joined"
	KindQueueProgress          NotificationKind = "queue_progress"
	KindReadySoon              NotificationKind = "ready_soon"
	KindYourTurn               NotificationKind = "your_turn"
	KindAppointmentConfirmed   NotificationKind = "appointment_confirmed"
	KindAppointmentReminder24h NotificationKind = "appointment_reminder_24h"
	KindAppointmentReminder1h  NotificationKind = "appointment_reminder_1h"
	KindOrderReady             NotificationKind = "order_ready"
)

// NotificationEvent is implemented by every notification payload
type NotificationEvent interface {
	Kind() NotificationKind
}

// QueueJoined is sent when a customer enters a queue
type QueueJoined struct {
	Name        string
	Position    int
	WaitMinutes int
}

// QueueProgress is sent when a customer moved up noticeably
type QueueProgress struct {
	Name        string
	Position    int
	WaitMinutes int
}

// ReadySoon is sent to the first two customers of a queue
type ReadySoon struct {
	Name string
}

// YourTurn is sent when a customer is called; Table is nil for counter service
type YourTurn struct {
	Name  string
	Table *int
}

// OrderReady is sent when the customer's order can be picked up
type OrderReady struct {
	Name string
}

// AppointmentConfirmedNotice is sent after a booking succeeds
type AppointmentConfirmedNotice struct {
	Type AppointmentType
	Time time.Time
}

// AppointmentReminder24h is sent a day before the appointment
type AppointmentReminder24h struct {
	Type AppointmentType
	Time time.Time
}

// AppointmentReminder1h is sent an hour before the appointment
type AppointmentReminder1h struct {
	Type AppointmentType
	Time time.Time
}

func (QueueJoined) Kind() NotificationKind                { return KindQueueJoined }
func (QueueProgress) Kind() NotificationKind              { return KindQueueProgress }
func (ReadySoon) Kind() NotificationKind                  { return KindReadySoon }
func (YourTurn) Kind() NotificationKind                   { return KindYourTurn }
func (OrderReady) Kind() NotificationKind                 { return KindOrderReady }
func (AppointmentConfirmedNotice) Kind() NotificationKind { return KindAppointmentConfirmed }
func (AppointmentReminder24h) Kind() NotificationKind     { return KindAppointmentReminder24h }
func (AppointmentReminder1h) Kind() NotificationKind      { return KindAppointmentReminder1h }

// DisplayMessage is what in-store displays receive over the bus
type DisplayMessage struct {
	QueueID   string           `json:"queue_id"`
	QueueType QueueType        `json:"queue_type"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	SentAt    time.Time        `json:"sent_at"`
}
