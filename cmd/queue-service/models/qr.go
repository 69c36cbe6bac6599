package models

import (
	"slices"
	"time"
)

// QRSession is a table ordering session opened by scanning the table's code
type QRSession struct {
	QRID           string     `json:"qr_id"`
	TableNumber    int        `json:"table_number"`
	GeneratedAt    time.Time  `json:"generated_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	Scans          int        `json:"scans"`
	LastScannedAt  *time.Time `json:"last_scanned_at,omitempty"`
	ActiveSessions []string   `json:"active_sessions"`
}

// NewQRSession creates a session for table valid for ttl
func NewQRSession(table int, ttl time.Duration, now time.Time) *QRSession {
	return &QRSession{
		QRID:           "qr_" + shortHex(12),
		TableNumber:    table,
		GeneratedAt:    now,
		ExpiresAt:      now.Add(ttl),
		ActiveSessions: []string{},
	}
}

// IsValid reports whether the code has not expired yet
func (q *QRSession) IsValid(now time.Time) bool {
	return now.Before(q.ExpiresAt)
}

// Scan records a scan by sessionID; expired codes refuse the scan
func (q *QRSession) Scan(sessionID string, now time.Time) bool {
	if !q.IsValid(now) {
		return false
	}

	q.Scans++
	q.LastScannedAt = &now

	if sessionID != "" && !slices.Contains(q.ActiveSessions, sessionID) {
		q.ActiveSessions = append(q.ActiveSessions, sessionID)
	}
	return true
}

// TableWelcome is returned to a customer who scanned a table code
type TableWelcome struct {
	TableNumber    int    `json:"table_number"`
	SessionID      string `json:"session_id"`
	QRID           string `json:"qr_id"`
	CanOrder       bool   `json:"can_order"`
	WelcomeMessage string `json:"welcome_message"`
}
