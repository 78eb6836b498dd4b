package repository

import (
	"context"

	"taxi24/internal/domain"
)

// TripFilter narrows a trip listing. Zero values match everything.
type TripFilter struct {
	Status domain.TripStatus
}

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID, locking the row inside a unit of work.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// List returns one page of trips, newest first, and the total number of matches.
	List(ctx context.Context, filter TripFilter, page domain.PageRequest) ([]*domain.Trip, int, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error
}
