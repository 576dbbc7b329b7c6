package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"tour-platform/api/internal/db"
	"tour-platform/api/internal/role/domain"
)

// Sentinel errors for the role service; handlers map them to HTTP responses.
var (
	ErrRoleNotFound  = errors.New("role not found")
	ErrRoleNameTaken = errors.New("role name already exists")
	ErrRoleInUse     = errors.New("role is assigned to users")
)

// RoleRepo is the minimal role repository needed by the role service.
type RoleRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Create(ctx context.Context, r *domain.Role) error
	Update(ctx context.Context, r *domain.Role) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// RoleUpdate carries the mutable role fields. Nil means leave unchanged.
type RoleUpdate struct {
	RoleName    *string
	Description *string
	Status      *domain.RoleStatus
}

// RoleService implements role CRUD for the superadmin surface.
type RoleService struct {
	roles RoleRepo
}

// NewRoleService returns a RoleService backed by the given repository.
func NewRoleService(roles RoleRepo) *RoleService {
	return &RoleService{roles: roles}
}

// Create adds a new role. Role names are unique.
func (s *RoleService) Create(ctx context.Context, name, description string) (*domain.Role, error) {
	name = strings.TrimSpace(name)
	now := time.Now().UTC()
	role := &domain.Role{
		ID:          uuid.New().String(),
		RoleName:    name,
		Description: strings.TrimSpace(description),
		Status:      domain.RoleStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}
	if err := s.roles.Create(ctx, role); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrRoleNameTaken
		}
		return nil, err
	}
	return role, nil
}

// Get returns the role with the given id, or ErrRoleNotFound.
func (s *RoleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return role, nil
}

// List returns all roles.
func (s *RoleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.List(ctx)
}

// Update applies the non-nil fields of upd to the role and returns the result.
func (s *RoleService) Update(ctx context.Context, id string, upd RoleUpdate) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	if upd.RoleName != nil {
		role.RoleName = strings.TrimSpace(*upd.RoleName)
	}
	if upd.Description != nil {
		role.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Status != nil {
		role.Status = *upd.Status
	}
	role.UpdatedAt = time.Now().UTC()
	if err := role.Validate(); err != nil {
		return nil, err
	}
	ok, err := s.roles.Update(ctx, role)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrRoleNameTaken
		}
		return nil, err
	}
	if !ok {
		return nil, ErrRoleNotFound
	}
	return role, nil
}

// Delete removes the role. A role still referenced by users is refused with
// ErrRoleInUse; the users.role_id foreign key restricts the delete.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	ok, err := s.roles.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrRoleInUse
		}
		return err
	}
	if !ok {
		return ErrRoleNotFound
	}
	return nil
}
