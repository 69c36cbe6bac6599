package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QueueType identifies one of the fixed service queues
type QueueType int

const (
	QueueWalkIn QueueType = iota
	QueueAppointment
	QueueDelivery
	QueueTakeaway
	QueueDineIn

	numQueueTypes
)

// NumQueueTypes is the number of queue variants
const NumQueueTypes = int(numQueueTypes)

var queueTypeNames = [NumQueueTypes]string{
	QueueWalkIn:      "walk_in",
	QueueAppointment: "appointment",
	QueueDelivery:    "delivery",
	QueueTakeaway:    "takeaway",
	QueueDineIn:      "dine_in",
}

// AllQueueTypes returns every queue type in declaration order
func AllQueueTypes() []QueueType {
	types := make([]QueueType, NumQueueTypes)
	for i := range types {
		types[i] = QueueType(i)
	}
	return types
}

// ParseQueueType parses the wire name of a queue type
func ParseQueueType(s string) (QueueType, error) {
	for i, name := range queueTypeNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return QueueType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown queue type: %q", s)
}

// Valid reports whether t is a known queue type
func (t QueueType) Valid() bool {
	return t >= 0 && t < numQueueTypes
}

func (t QueueType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("QueueType(%d)", int(t))
	}
	return queueTypeNames[t]
}

// MarshalText encodes the queue type by name
func (t QueueType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid queue type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a queue type name
func (t *QueueType) UnmarshalText(b []byte) error {
	parsed, err := ParseQueueType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// QueueStatus is the lifecycle state of a queue entry
type QueueStatus string

const (
	StatusWaiting   QueueStatus = "waiting"
	StatusCalled    QueueStatus = "called"
	StatusPreparing QueueStatus = "preparing"
	StatusReady     QueueStatus = "ready"
	StatusCompleted QueueStatus = "completed"
	StatusCancelled QueueStatus = "cancelled"
	StatusNoShow    QueueStatus = "no_show"
)

// NotificationMethod is a delivery channel for customer notifications
type NotificationMethod string

const (
	MethodSMS            NotificationMethod = "sms"
	MethodEmail          NotificationMethod = "email"
	MethodInStoreDisplay NotificationMethod = "in_store_display"
)

// NotificationRecord is one entry of an entry's notification history
type NotificationRecord struct {
	Type    NotificationKind `json:"type"`
	Method  string           `json:"method"`
	SentAt  time.Time        `json:"sent_at"`
	Success bool             `json:"success"`
}

// QueueEntry is one customer's waiting-for-service record
type QueueEntry struct {
	QueueID    string      `json:"queue_id"`
	SessionID  string      `json:"session_id,omitempty"`
	CustomerID string      `json:"customer_id,omitempty"`
	QueueType  QueueType   `json:"queue_type"`
	Status     QueueStatus `json:"status"`
	Priority   int         `json:"priority"`

	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	PartySize     int    `json:"party_size"`

	OrderID           string          `json:"order_id,omitempty"`
	HasOrder          bool            `json:"has_order"`
	OrderValue        decimal.Decimal `json:"order_value"`
	EstimatedPrepTime int             `json:"estimated_prep_time"`

	CreatedAt          time.Time  `json:"created_at"`
	EstimatedReadyTime *time.Time `json:"estimated_ready_time,omitempty"`
	CalledAt           *time.Time `json:"called_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	// 1-based
	OriginalPosition int `json:"original_position"`
	CurrentPosition  int `json:"current_position"`

	// position carried by the last progress notification, 0 when none was sent
	LastNotifiedPosition int `json:"last_notified_position,omitempty"`

	SpecialRequests     string   `json:"special_requests,omitempty"`
	AccessibilityNeeds  []string `json:"accessibility_needs"`
	DietaryRestrictions []string `json:"dietary_restrictions"`

	NotificationMethods []NotificationMethod `json:"notification_methods"`
	NotificationsSent   []NotificationRecord `json:"notifications_sent"`

	TableNumber       *int   `json:"table_number"`
	SeatingPreference string `json:"seating_preference,omitempty"`
}

// NewQueueID returns a fresh q_<8 hex> identifier
func NewQueueID() string {
	return "q_" + shortHex(8)
}

func shortHex(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// EstimatedWait is ahead × avgServiceTime plus the entry's own prep time
func (e *QueueEntry) EstimatedWait(ahead, avgServiceTime int) int {
	return ahead*avgServiceTime + e.EstimatedPrepTime
}

// ElapsedWait returns whole minutes spent since joining, up to completion
func (e *QueueEntry) ElapsedWait(now time.Time) int {
	end := now
	if e.CompletedAt != nil {
		end = *e.CompletedAt
	}
	return int(end.Sub(e.CreatedAt).Minutes())
}

// ReadyForNotification reports whether no notification of kind was sent within cooldown
func (e *QueueEntry) ReadyForNotification(kind NotificationKind, cooldown time.Duration, now time.Time) bool {
	cutoff := now.Add(-cooldown)
	for _, n := range e.NotificationsSent {
		if n.Type == kind && n.SentAt.After(cutoff) {
			return false
		}
	}
	return true
}

// RecordNotification appends to the notification history
func (e *QueueEntry) RecordNotification(kind NotificationKind, method string, success bool, now time.Time) {
	e.NotificationsSent = append(e.NotificationsSent, NotificationRecord{
		Type:    kind,
		Method:  method,
		SentAt:  now,
		Success: success,
	})
}

// SetNotificationMethods derives delivery channels from the contact details
func (e *QueueEntry) SetNotificationMethods() {
	methods := make([]NotificationMethod, 0, 3)
	if e.CustomerPhone != "" {
		methods = append(methods, MethodSMS)
	}
	if e.CustomerEmail != "" {
		methods = append(methods, MethodEmail)
	}
	methods = append(methods, MethodInStoreDisplay)
	e.NotificationMethods = methods
}

// Clone returns a deep copy safe to hand outside the manager lock
func (e *QueueEntry) Clone() *QueueEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.EstimatedReadyTime = cloneTime(e.EstimatedReadyTime)
	c.CalledAt = cloneTime(e.CalledAt)
	c.CompletedAt = cloneTime(e.CompletedAt)
	if e.TableNumber != nil {
		n := *e.TableNumber
		c.TableNumber = &n
	}
	c.AccessibilityNeeds = cloneSlice(e.AccessibilityNeeds)
	c.DietaryRestrictions = cloneSlice(e.DietaryRestrictions)
	c.NotificationMethods = cloneSlice(e.NotificationMethods)
	c.NotificationsSent = cloneSlice(e.NotificationsSent)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// QueueStatusView is the customer-facing status of one entry
type QueueStatusView struct {
	QueueID            string      `json:"queue_id"`
	Status             QueueStatus `json:"status"`
	Position           int         `json:"position"`
	EstimatedWaitTime  int         `json:"estimated_wait_time"`
	EstimatedReadyTime *time.Time  `json:"estimated_ready_time"`
	PartySize          int         `json:"party_size"`
	TableNumber        *int        `json:"table_number"`
	CreatedAt          time.Time   `json:"created_at"`
	HasOrder           bool        `json:"has_order"`
}

// QueueTypeSummary aggregates one queue
type QueueTypeSummary struct {
	Total         int `json:"total"`
	Waiting       int `json:"waiting"`
	Called        int `json:"called"`
	Preparing     int `json:"preparing"`
	EstimatedWait int `json:"estimated_wait"`
}

// OverallSummary aggregates every queue and the table pool
type OverallSummary struct {
	TotalWaiting    int `json:"total_waiting"`
	AvailableTables int `json:"available_tables"`
	OccupiedTables  int `json:"occupied_tables"`
	AverageWaitTime int `json:"average_wait_time"`
}

// QueueSummary is the snapshot returned by the summary endpoint
type QueueSummary struct {
	Queues  map[QueueType]QueueTypeSummary `json:"queues"`
	Overall OverallSummary                 `json:"overall"`
}
