package repository

import (
	"context"

	"tour-platform/api/internal/tour/domain"
)

// Repository defines persistence for tours.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Tour, error)
	List(ctx context.Context) ([]*domain.Tour, error)
	Create(ctx context.Context, t *domain.Tour) error
	Update(ctx context.Context, t *domain.Tour) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
