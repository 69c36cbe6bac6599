package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JoinRequest is the input to joining a queue
type JoinRequest struct {
	CustomerName        string          `json:"customer_name" validate:"required,max=100"`
	QueueType           QueueType       `json:"queue_type"`
	PartySize           int             `json:"party_size" validate:"omitempty,min=1,max=12"`
	CustomerPhone       string          `json:"customer_phone" validate:"omitempty,min=7,max=20"`
	CustomerEmail       string          `json:"customer_email" validate:"omitempty,email"`
	SpecialRequests     string          `json:"special_requests" validate:"max=500"`
	SessionID           string          `json:"session_id" validate:"max=100"`
	CustomerID          string          `json:"customer_id" validate:"max=100"`
	OrderID             string          `json:"order_id" validate:"max=100"`
	OrderValue          decimal.Decimal `json:"order_value"`
	EstimatedPrepTime   int             `json:"estimated_prep_time" validate:"omitempty,min=1,max=120"`
	Priority            int             `json:"priority" validate:"min=0,max=10"`
	AccessibilityNeeds  []string        `json:"accessibility_needs" validate:"max=10,dive,max=100"`
	DietaryRestrictions []string        `json:"dietary_restrictions" validate:"max=10,dive,max=100"`
	SeatingPreference   string          `json:"seating_preference" validate:"omitempty,oneof=window quiet counter outdoor"`
}

// BookRequest is the input to booking an appointment
type BookRequest struct {
	OrganizerName        string          `json:"organizer_name" validate:"required,max=100"`
	AppointmentType      AppointmentType `json:"appointment_type" validate:"required,oneof=coffee_meeting coffee_date business_meeting study_session casual_meetup therapy_session pickup_order"`
	ScheduledTime        time.Time       `json:"scheduled_time" validate:"required"`
	DurationMinutes      int             `json:"duration_minutes" validate:"omitempty,min=15,max=240"`
	ParticipantCount     int             `json:"participant_count" validate:"omitempty,min=1,max=8"`
	ParticipantNames     []string        `json:"participant_names" validate:"max=8,dive,max=100"`
	OrganizerPhone       string          `json:"organizer_phone" validate:"omitempty,min=7,max=20"`
	OrganizerEmail       string          `json:"organizer_email" validate:"omitempty,email"`
	SeatingPreference    string          `json:"seating_preference" validate:"max=50"`
	AtmospherePreference string          `json:"atmosphere_preference" validate:"omitempty,oneof=quiet social business"`
	SpecialRequirements  string          `json:"special_requirements" validate:"max=500"`
	QueueEntryID         string          `json:"queue_entry_id" validate:"max=20"`
}

// EditableFields are the entry fields customers may change with a JSON patch
type EditableFields struct {
	SpecialRequests     string   `json:"special_requests" validate:"max=500"`
	CustomerPhone       string   `json:"customer_phone" validate:"omitempty,min=7,max=20"`
	CustomerEmail       string   `json:"customer_email" validate:"omitempty,email"`
	SeatingPreference   string   `json:"seating_preference" validate:"omitempty,oneof=window quiet counter outdoor"`
	AccessibilityNeeds  []string `json:"accessibility_needs" validate:"max=10,dive,max=100"`
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"max=10,dive,max=100"`
}

// EditablePaths are the top-level JSON pointers a patch may touch
var EditablePaths = []string{
	"special_requests",
	"customer_phone",
	"customer_email",
	"seating_preference",
	"accessibility_needs",
	"dietary_restrictions",
}

// EditableFieldsOf extracts the editable view of an entry
func EditableFieldsOf(e *QueueEntry) EditableFields {
	f := EditableFields{
		SpecialRequests:     e.SpecialRequests,
		CustomerPhone:       e.CustomerPhone,
		CustomerEmail:       e.CustomerEmail,
		SeatingPreference:   e.SeatingPreference,
		AccessibilityNeeds:  cloneSlice(e.AccessibilityNeeds),
		DietaryRestrictions: cloneSlice(e.DietaryRestrictions),
	}
	if f.AccessibilityNeeds == nil {
		f.AccessibilityNeeds = []string{}
	}
	if f.DietaryRestrictions == nil {
		f.DietaryRestrictions = []string{}
	}
	return f
}

// ApplyTo copies the editable fields back onto e and refreshes its delivery methods
func (f EditableFields) ApplyTo(e *QueueEntry) {
	e.SpecialRequests = f.SpecialRequests
	e.CustomerPhone = f.CustomerPhone
	e.CustomerEmail = f.CustomerEmail
	e.SeatingPreference = f.SeatingPreference
	e.AccessibilityNeeds = cloneSlice(f.AccessibilityNeeds)
	e.DietaryRestrictions = cloneSlice(f.DietaryRestrictions)
	e.SetNotificationMethods()
}
