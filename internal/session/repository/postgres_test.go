package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// scriptConn is a single scripted driver connection. It serves the statements
// Record issues and returns queued errors for INSERTs, so the unique-index
// retry path can run without a database.
type scriptConn struct {
	insertErrs []error
	updates    int
	inserts    int
	commits    int
	rollbacks  int
}

func (c *scriptConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("unexpected Prepare")
}

func (c *scriptConn) Close() error { return nil }

func (c *scriptConn) Begin() (driver.Tx, error) { return scriptTx{c}, nil }

func (c *scriptConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	switch {
	case strings.Contains(query, "INSERT"):
		c.inserts++
		if len(c.insertErrs) > 0 {
			err := c.insertErrs[0]
			c.insertErrs = c.insertErrs[1:]
			if err != nil {
				return nil, err
			}
		}
		return driver.RowsAffected(1), nil
	case strings.Contains(query, "UPDATE"):
		c.updates++
		return driver.RowsAffected(1), nil
	}
	return nil, errors.New("unexpected statement: " + query)
}

type scriptTx struct{ c *scriptConn }

func (t scriptTx) Commit() error   { t.c.commits++; return nil }
func (t scriptTx) Rollback() error { t.c.rollbacks++; return nil }

type scriptConnector struct{ conn *scriptConn }

func (s scriptConnector) Connect(context.Context) (driver.Conn, error) { return s.conn, nil }
func (s scriptConnector) Driver() driver.Driver                        { return scriptDriver{} }

type scriptDriver struct{}

func (scriptDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use the connector") }

func newScriptDB(t *testing.T, conn *scriptConn) *sql.DB {
	t.Helper()
	pool := sql.OpenDB(scriptConnector{conn: conn})
	pool.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func activeSessionConflict() *pgconn.PgError {
	return &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "uniq_user_login_sessions_active",
	}
}

func TestRecord_RetriesAfterConcurrentLogin(t *testing.T) {
	// A concurrent login committed a valid row between our sweep and insert;
	// the unique index rejects the first insert and the second attempt wins.
	conn := &scriptConn{insertErrs: []error{activeSessionConflict(), nil}}
	repo := NewPostgresRepository(newScriptDB(t, conn))

	sess, err := repo.Record(context.Background(), "user-1", "hash-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if sess == nil || sess.UserID != "user-1" || !sess.Valid {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if conn.inserts != 2 || conn.updates != 2 {
		t.Errorf("inserts = %d, updates = %d, want 2 and 2", conn.inserts, conn.updates)
	}
	if conn.commits != 1 {
		t.Errorf("commits = %d, want 1", conn.commits)
	}
	if conn.rollbacks < 1 {
		t.Errorf("rollbacks = %d, want at least 1 for the losing transaction", conn.rollbacks)
	}
}

func TestRecord_GivesUpAfterRepeatedConflicts(t *testing.T) {
	conn := &scriptConn{insertErrs: []error{
		activeSessionConflict(), activeSessionConflict(), activeSessionConflict(), activeSessionConflict(),
	}}
	repo := NewPostgresRepository(newScriptDB(t, conn))

	_, err := repo.Record(context.Background(), "user-1", "hash-1", time.Now().Add(time.Hour))
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		t.Fatalf("err = %v, want unique violation", err)
	}
	if conn.inserts != recordAttempts {
		t.Errorf("inserts = %d, want %d", conn.inserts, recordAttempts)
	}
	if conn.commits != 0 {
		t.Errorf("commits = %d, want 0", conn.commits)
	}
}

func TestRecord_StopsOnOtherErrors(t *testing.T) {
	conn := &scriptConn{insertErrs: []error{errors.New("connection reset")}}
	repo := NewPostgresRepository(newScriptDB(t, conn))

	_, err := repo.Record(context.Background(), "user-1", "hash-1", time.Now().Add(time.Hour))
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("err = %v, want the driver error", err)
	}
	if conn.inserts != 1 {
		t.Errorf("inserts = %d, want 1 (no retry for non-conflict errors)", conn.inserts)
	}
}
