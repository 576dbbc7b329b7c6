// Package store binds the auth service's transactional work to Postgres.
package store

import (
	"context"
	"database/sql"

	"tour-platform/api/internal/auth/service"
	"tour-platform/api/internal/db"
	sessionrepo "tour-platform/api/internal/session/repository"
	userrepo "tour-platform/api/internal/user/repository"
)

// SQLTxRunner implements service.TxRunner over a *sql.DB pool. Each InTx call
// opens one transaction and hands fn repository copies bound to it.
type SQLTxRunner struct {
	pool     *sql.DB
	users    *userrepo.PostgresRepository
	sessions *sessionrepo.PostgresRepository
}

// NewSQLTxRunner returns a TxRunner that rebinds the given repositories to a
// fresh transaction per call.
func NewSQLTxRunner(pool *sql.DB, users *userrepo.PostgresRepository, sessions *sessionrepo.PostgresRepository) *SQLTxRunner {
	return &SQLTxRunner{pool: pool, users: users, sessions: sessions}
}

// InTx runs fn with transaction-bound user and session repositories. The
// transaction commits only if fn returns nil.
func (r *SQLTxRunner) InTx(ctx context.Context, fn func(users service.UserRepo, sessions service.SessionLedger) error) error {
	return db.InTx(ctx, r.pool, func(tx *sql.Tx) error {
		return fn(r.users.WithTx(tx), r.sessions.WithTx(tx))
	})
}
