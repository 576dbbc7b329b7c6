package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tour-platform/api/internal/role/domain"
)

const roleColumns = `id, role_name, description, status, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a role repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the role for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM user_roles WHERE id = $1`, id)
	return scanRole(row)
}

// GetByName returns the role with the given role_name, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM user_roles WHERE role_name = $1`, name)
	return scanRole(row)
}

// List returns all roles ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roleColumns+` FROM user_roles ORDER BY role_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Role
	for rows.Next() {
		role, err := scanRoleRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// Create persists the role to the database. The role must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, role *domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (id, role_name, description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		role.ID, role.RoleName, nullString(role.Description), string(role.Status),
		role.CreatedAt, role.UpdatedAt)
	return err
}

// Update updates the role's name, description, and status. Returns false if no row matched.
func (r *PostgresRepository) Update(ctx context.Context, role *domain.Role) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_roles SET role_name = $2, description = $3, status = $4, updated_at = $5
		 WHERE id = $1`,
		role.ID, role.RoleName, nullString(role.Description), string(role.Status), time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes the role. Returns false if no row matched. Deleting a role that
// users still reference fails with a foreign-key violation from the driver.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(row *sql.Row) (*domain.Role, error) {
	role, err := scanRoleRows(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return role, nil
}

func scanRoleRows(s rowScanner) (*domain.Role, error) {
	var role domain.Role
	var desc sql.NullString
	var status string
	if err := s.Scan(&role.ID, &role.RoleName, &desc, &status, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}
	role.Description = desc.String
	role.Status = domain.RoleStatus(status)
	return &role, nil
}
