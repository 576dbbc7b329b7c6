package repository

import (
	"context"
	"time"

	"tour-platform/api/internal/session/domain"
)

// Repository defines persistence for the session ledger.
type Repository interface {
	// Record invalidates every currently-valid session for userID and inserts a
	// new valid session in one atomic step (single-active-session policy).
	Record(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*domain.Session, error)
	// Invalidate marks the valid session with tokenHash invalid. Returns false
	// if no valid session matched.
	Invalidate(ctx context.Context, tokenHash string) (bool, error)
	// InvalidateAll marks every valid session for userID invalid. Idempotent.
	InvalidateAll(ctx context.Context, userID string) error
	// IsValid reports whether a session with tokenHash exists, is valid, and has
	// not passed its expiry. A hit also bumps the session's last-used timestamp.
	IsValid(ctx context.Context, tokenHash string) (bool, error)
	// ListByUser returns all sessions for userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Session, error)
}
