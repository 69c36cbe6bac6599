package models

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentType classifies a booking
type AppointmentType string

const (
	AppointmentCoffeeMeeting   AppointmentType = "coffee_meeting"
	AppointmentCoffeeDate      AppointmentType = "coffee_date"
	AppointmentBusinessMeeting AppointmentType = "business_meeting"
	AppointmentStudySession    AppointmentType = "study_session"
	AppointmentCasualMeetup    AppointmentType = "casual_meetup"
	AppointmentTherapySession  AppointmentType = "therapy_session"
	AppointmentPickupOrder     AppointmentType = "pickup_order"
)

var appointmentTypes = map[AppointmentType]bool{
	AppointmentCoffeeMeeting:   true,
	AppointmentCoffeeDate:      true,
	AppointmentBusinessMeeting: true,
	AppointmentStudySession:    true,
	AppointmentCasualMeetup:    true,
	AppointmentTherapySession:  true,
	AppointmentPickupOrder:     true,
}

// ParseAppointmentType validates an appointment type name
func ParseAppointmentType(s string) (AppointmentType, error) {
	t := AppointmentType(strings.ToLower(strings.TrimSpace(s)))
	if !appointmentTypes[t] {
		return "", fmt.Errorf("unknown appointment type: %q", s)
	}
	return t, nil
}

// Title renders "coffee_meeting" as "Coffee Meeting"
func (t AppointmentType) Title() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// AppointmentStatus is the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// Appointment is a booked time slot
type Appointment struct {
	AppointmentID   string          `json:"appointment_id"`
	QueueEntryID    string          `json:"queue_entry_id,omitempty"`
	AppointmentType AppointmentType `json:"appointment_type"`
	ScheduledTime   time.Time       `json:"scheduled_time"`
	DurationMinutes int             `json:"duration_minutes"`

	OrganizerName    string   `json:"organizer_name"`
	OrganizerPhone   string   `json:"organizer_phone,omitempty"`
	OrganizerEmail   string   `json:"organizer_email,omitempty"`
	ParticipantCount int      `json:"participant_count"`
	ParticipantNames []string `json:"participant_names"`

	SeatingPreference    string `json:"seating_preference,omitempty"`
	AtmospherePreference string `json:"atmosphere_preference,omitempty"`
	SpecialRequirements  string `json:"special_requirements,omitempty"`

	CreatedAt   time.Time         `json:"created_at"`
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"`
	Status      AppointmentStatus `json:"status"`

	ReminderSent24h bool `json:"reminder_sent_24h"`
	ReminderSent1h  bool `json:"reminder_sent_1h"`
}

// NewAppointmentID returns a fresh apt_<8 hex> identifier
func NewAppointmentID() string {
	return "apt_" + shortHex(8)
}

// End is the exclusive end of the booked interval
func (a *Appointment) End() time.Time {
	return a.ScheduledTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Overlaps applies the half-open interval test against [start, end)
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return start.Before(a.End()) && end.After(a.ScheduledTime)
}

// ShouldSendReminder reports whether now is within tolerance of before ahead of the start
func (a *Appointment) ShouldSendReminder(before, tolerance time.Duration, now time.Time) bool {
	diff := a.ScheduledTime.Sub(now) - before
	if diff < 0 {
		diff = -diff
	}
	return diff < tolerance
}

// Clone returns a deep copy
func (a *Appointment) Clone() *Appointment {
	if a == nil {
		return nil
	}
	c := *a
	c.ConfirmedAt = cloneTime(a.ConfirmedAt)
	c.ParticipantNames = cloneSlice(a.ParticipantNames)
	return &c
}
