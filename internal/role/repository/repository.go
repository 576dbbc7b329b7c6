package repository

import (
	"context"

	"tour-platform/api/internal/role/domain"
)

// Repository defines persistence for roles.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Create(ctx context.Context, r *domain.Role) error
	Update(ctx context.Context, r *domain.Role) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
