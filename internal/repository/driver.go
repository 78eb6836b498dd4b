package repository

import (
	"context"

	"taxi24/internal/domain"
)

// DriverFilter narrows a driver listing. Zero values match everything.
type DriverFilter struct {
	Status domain.DriverStatus
}

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID. Inside a unit of work the row is
	// locked until commit or rollback.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByIDs retrieves the drivers with the given IDs. Unknown IDs are
	// skipped; order is unspecified.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Driver, error)

	// List returns one page of drivers and the total number of matches.
	List(ctx context.Context, filter DriverFilter, page domain.PageRequest) ([]*domain.Driver, int, error)

	// ListWithCoordinates returns every driver that has reported a position.
	ListWithCoordinates(ctx context.Context) ([]*domain.Driver, error)

	// Update saves name, last name and status of an existing driver.
	Update(ctx context.Context, driver *domain.Driver) error

	// UpdateLocation stores the last reported position of a driver.
	UpdateLocation(ctx context.Context, id string, point domain.Point) error
}
