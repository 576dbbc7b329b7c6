package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tour-platform/api/internal/db"
	"tour-platform/api/internal/user/domain"
)

const userColumns = `u.id, u.first_name, u.last_name, u.username, u.email, u.mobile,
	u.password_hash, u.role_id, r.role_name, u.status, u.created_at, u.updated_at`

const userSelect = `SELECT ` + userColumns + `
	FROM users u JOIN user_roles r ON r.id = u.role_id`

type PostgresRepository struct {
	q db.DBTX
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(pool *sql.DB) *PostgresRepository {
	return &PostgresRepository{q: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresRepository) WithTx(tx *sql.Tx) *PostgresRepository {
	return &PostgresRepository{q: tx}
}

// GetByID returns the user for id with the role name joined in, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx, userSelect+` WHERE u.id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx, userSelect+` WHERE u.email = $1`, email)
	return scanUser(row)
}

// Create persists the user to the database. The user must have ID set; it is not
// assigned by this method. A duplicate email or username surfaces as a driver
// unique-violation error.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, username, email, mobile,
		                    password_hash, role_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.FirstName, nullString(u.LastName), u.Username, u.Email, nullString(u.Mobile),
		u.PasswordHash, u.RoleID, string(u.Status), u.CreatedAt, u.UpdatedAt)
	return err
}

// Update updates the user's profile fields (name, username, email, mobile).
// Role, password hash, and status are not touched by this method.
// Returns false if no row matched.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, username = $4, email = $5,
		                  mobile = $6, updated_at = $7
		 WHERE id = $1`,
		u.ID, u.FirstName, nullString(u.LastName), u.Username, u.Email, nullString(u.Mobile),
		time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UpdatePassword replaces the user's password hash. Returns false if no row matched.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var lastName, mobile sql.NullString
	var status string
	err := row.Scan(&u.ID, &u.FirstName, &lastName, &u.Username, &u.Email, &mobile,
		&u.PasswordHash, &u.RoleID, &u.RoleName, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.LastName = lastName.String
	u.Mobile = mobile.String
	u.Status = domain.UserStatus(status)
	return &u, nil
}
