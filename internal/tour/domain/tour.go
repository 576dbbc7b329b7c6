package domain

import (
	"errors"
	"time"
)

// Tour is a bookable tour listing.
type Tour struct {
	ID          string
	Name        string
	Description string
	Location    string
	Price       float64
	Status      TourStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TourStatus string

const (
	TourStatusActive   TourStatus = "active"
	TourStatusInactive TourStatus = "inactive"
)

// Validate validates the tour for persistence. Returns an error describing the first validation failure.
func (t *Tour) Validate() error {
	if t.Name == "" {
		return errors.New("name is required")
	}
	if t.Price < 0 {
		return errors.New("price must not be negative")
	}
	if t.Status == "" {
		t.Status = TourStatusActive
	}
	return nil
}
