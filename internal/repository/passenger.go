package repository

import (
	"context"

	"taxi24/internal/domain"
)

// PassengerFilter narrows a passenger listing. Zero values match everything.
type PassengerFilter struct {
	Status domain.PassengerStatus
}

// PassengerRepository defines the persistence operations for passengers.
type PassengerRepository interface {
	// Create adds a new passenger.
	Create(ctx context.Context, passenger *domain.Passenger) error

	// GetByID retrieves a passenger by ID, locking the row inside a unit of work.
	GetByID(ctx context.Context, id string) (*domain.Passenger, error)

	// GetByIDs retrieves the passengers with the given IDs.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Passenger, error)

	// List returns one page of passengers and the total number of matches.
	List(ctx context.Context, filter PassengerFilter, page domain.PageRequest) ([]*domain.Passenger, int, error)

	// Update saves name, last name and status of an existing passenger.
	Update(ctx context.Context, passenger *domain.Passenger) error
}
