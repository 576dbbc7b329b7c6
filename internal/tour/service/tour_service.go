package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"tour-platform/api/internal/tour/domain"
)

// ErrTourNotFound is returned when no tour matches the requested id.
var ErrTourNotFound = errors.New("tour not found")

// TourRepo is the minimal tour repository needed by the tour service.
type TourRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Tour, error)
	List(ctx context.Context) ([]*domain.Tour, error)
	Create(ctx context.Context, t *domain.Tour) error
	Update(ctx context.Context, t *domain.Tour) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// TourUpdate carries the mutable tour fields. Nil means leave unchanged.
type TourUpdate struct {
	Name        *string
	Description *string
	Location    *string
	Price       *float64
	Status      *domain.TourStatus
}

// TourService implements tour CRUD.
type TourService struct {
	tours TourRepo
}

// NewTourService returns a TourService backed by the given repository.
func NewTourService(tours TourRepo) *TourService {
	return &TourService{tours: tours}
}

// Create adds a new tour listing.
func (s *TourService) Create(ctx context.Context, name, description, location string, price float64) (*domain.Tour, error) {
	now := time.Now().UTC()
	tour := &domain.Tour{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(location),
		Price:       price,
		Status:      domain.TourStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tour.Validate(); err != nil {
		return nil, err
	}
	if err := s.tours.Create(ctx, tour); err != nil {
		return nil, err
	}
	return tour, nil
}

// Get returns the tour with the given id, or ErrTourNotFound.
func (s *TourService) Get(ctx context.Context, id string) (*domain.Tour, error) {
	tour, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, ErrTourNotFound
	}
	return tour, nil
}

// List returns all tours.
func (s *TourService) List(ctx context.Context) ([]*domain.Tour, error) {
	return s.tours.List(ctx)
}

// Update applies the non-nil fields of upd to the tour and returns the result.
func (s *TourService) Update(ctx context.Context, id string, upd TourUpdate) (*domain.Tour, error) {
	tour, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, ErrTourNotFound
	}
	if upd.Name != nil {
		tour.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		tour.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Location != nil {
		tour.Location = strings.TrimSpace(*upd.Location)
	}
	if upd.Price != nil {
		tour.Price = *upd.Price
	}
	if upd.Status != nil {
		tour.Status = *upd.Status
	}
	tour.UpdatedAt = time.Now().UTC()
	if err := tour.Validate(); err != nil {
		return nil, err
	}
	ok, err := s.tours.Update(ctx, tour)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTourNotFound
	}
	return tour, nil
}

// Delete removes the tour, or returns ErrTourNotFound.
func (s *TourService) Delete(ctx context.Context, id string) error {
	ok, err := s.tours.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTourNotFound
	}
	return nil
}
