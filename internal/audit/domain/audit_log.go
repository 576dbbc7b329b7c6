package domain

import "time"

// AuditLog is one security-relevant event (login, logout, password change, ...).
// Entries are append-only; nothing in the application updates or deletes them.
type AuditLog struct {
	ID        string
	UserID    string // empty for events with no resolved user (e.g. failed login)
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
