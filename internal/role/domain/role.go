package domain

import (
	"errors"
	"time"
)

// Role is a named authorization tier. Users reference exactly one role.
type Role struct {
	ID          string
	RoleName    string
	Description string
	Status      RoleStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RoleStatus string

const (
	RoleStatusActive   RoleStatus = "active"
	RoleStatusDisabled RoleStatus = "disabled"
)

// Well-known role names seeded at install time.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleUser       = "user"
)

// Validate validates the role for persistence. Returns an error describing the first validation failure.
func (r *Role) Validate() error {
	if r.RoleName == "" {
		return errors.New("role_name is required")
	}
	if r.Status == "" {
		r.Status = RoleStatusActive
	}
	return nil
}
