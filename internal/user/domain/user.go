package domain

import (
	"errors"
	"time"
)

// User is the core account entity. PasswordHash must never leave the service layer.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	Email        string
	Mobile       string
	PasswordHash string
	RoleID       string
	RoleName     string // populated by joined lookups; not a users column
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.RoleID == "" {
		return errors.New("role_id is required")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}
