package domain

import "time"

// Session is the server-side record of one issued token. A session is created
// valid and becomes invalid when logged out, superseded by a new login, or
// invalidated by a password change; expiry is checked lazily against ExpiresAt.
// Invalid sessions are never mutated again or deleted; they remain for audit.
type Session struct {
	ID         string
	UserID     string
	TokenHash  string // SHA-256 of the issued token; the raw token is never stored
	Valid      bool
	LastUsedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExpiresAt  time.Time
}
