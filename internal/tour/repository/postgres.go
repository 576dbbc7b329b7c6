package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tour-platform/api/internal/tour/domain"
)

const tourColumns = `id, name, description, location, price, status, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a tour repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the tour for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Tour, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, id)
	t, err := scanTour(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// List returns all tours, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Tour, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tourColumns+` FROM tours ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create persists the tour to the database. The tour must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Tour) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tours (id, name, description, location, price, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Name, nullString(t.Description), nullString(t.Location), t.Price,
		string(t.Status), t.CreatedAt, t.UpdatedAt)
	return err
}

// Update updates the tour's fields. Returns false if no row matched.
func (r *PostgresRepository) Update(ctx context.Context, t *domain.Tour) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tours SET name = $2, description = $3, location = $4, price = $5,
		                  status = $6, updated_at = $7
		 WHERE id = $1`,
		t.ID, t.Name, nullString(t.Description), nullString(t.Location), t.Price,
		string(t.Status), time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes the tour. Returns false if no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tours WHERE id = $1`, id)
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

func scanTour(s rowScanner) (*domain.Tour, error) {
	var t domain.Tour
	var desc, loc sql.NullString
	var status string
	if err := s.Scan(&t.ID, &t.Name, &desc, &loc, &t.Price, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Description = desc.String
	t.Location = loc.String
	t.Status = domain.TourStatus(status)
	return &t, nil
}
