package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"tour-platform/api/internal/db"
	"tour-platform/api/internal/session/domain"
)

type PostgresRepository struct {
	pool *sql.DB // nil when bound to a transaction
	q    db.DBTX
}

// NewPostgresRepository returns a session-ledger repository that uses the given db for persistence.
func NewPostgresRepository(pool *sql.DB) *PostgresRepository {
	return &PostgresRepository{pool: pool, q: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
// Record must not be called on a transaction-bound copy.
func (r *PostgresRepository) WithTx(tx *sql.Tx) *PostgresRepository {
	return &PostgresRepository{q: tx}
}

// recordAttempts bounds the retries when the partial unique index on
// (user_id) WHERE valid rejects the insert.
const recordAttempts = 3

// Record invalidates all currently-valid sessions for userID, then inserts the
// new session as valid, in one transaction. The sweep alone cannot enforce
// single-active-session under READ COMMITTED: a concurrent login's UPDATE does
// not see this transaction's uncommitted row. The unique index on
// (user_id) WHERE valid rejects the second valid row instead, and the loser
// re-runs the transaction once the winner's row is visible to its sweep.
func (r *PostgresRepository) Record(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*domain.Session, error) {
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:         uuid.New().String(),
		UserID:     userID,
		TokenHash:  tokenHash,
		Valid:      true,
		LastUsedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  expiresAt,
	}
	var err error
	for attempt := 0; attempt < recordAttempts; attempt++ {
		err = db.InTx(ctx, r.pool, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx,
				`UPDATE user_login_sessions SET valid = false, updated_at = $2
				 WHERE user_id = $1 AND valid = true`,
				userID, now); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO user_login_sessions
				 (id, user_id, token_hash, valid, last_used_at, created_at, updated_at, expires_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				sess.ID, sess.UserID, sess.TokenHash, sess.Valid,
				sess.LastUsedAt, sess.CreatedAt, sess.UpdatedAt, sess.ExpiresAt)
			return err
		})
		if err == nil {
			return sess, nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, err
}

// Invalidate marks the valid session with tokenHash invalid.
// Returns false if no valid session matched.
func (r *PostgresRepository) Invalidate(ctx context.Context, tokenHash string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE user_login_sessions SET valid = false, updated_at = $2
		 WHERE token_hash = $1 AND valid = true`,
		tokenHash, time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// InvalidateAll marks every valid session for userID invalid. Zero matches is not an error.
func (r *PostgresRepository) InvalidateAll(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE user_login_sessions SET valid = false, updated_at = $2
		 WHERE user_id = $1 AND valid = true`,
		userID, time.Now().UTC())
	return err
}

// IsValid reports whether a valid, unexpired session with tokenHash exists.
// Expiry is evaluated against the database clock; expired rows are left in
// place and simply stop matching. A hit bumps last_used_at.
func (r *PostgresRepository) IsValid(ctx context.Context, tokenHash string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE user_login_sessions SET last_used_at = now()
		 WHERE token_hash = $1 AND valid = true AND expires_at > now()`,
		tokenHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListByUser returns all sessions for userID, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, token_hash, valid, last_used_at, created_at, updated_at, expires_at
		 FROM user_login_sessions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.TokenHash, &s.Valid,
			&s.LastUsedAt, &s.CreatedAt, &s.UpdatedAt, &s.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
