package repository

import (
	"context"

	"tour-platform/api/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (bool, error)
}
