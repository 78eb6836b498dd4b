package memory

import (
	"context"
	"sort"
	"time"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

// TripRepository is an in-memory implementation of repository.TripRepository.
type TripRepository struct {
	acc accessor
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	return r.acc.write(ctx, "trips.Create", func(d *data) error {
		if _, ok := d.trips[trip.ID]; ok {
			return repository.ErrConflict
		}
		if _, ok := d.drivers[trip.DriverID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := d.passengers[trip.PassengerID]; !ok {
			return repository.ErrNotFound
		}
		if trip.CreatedAt.IsZero() {
			trip.CreatedAt = time.Now().UTC()
		}
		trip.UpdatedAt = trip.CreatedAt
		d.trips[trip.ID] = *trip
		return nil
	})
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	var out *domain.Trip
	err := r.acc.read(ctx, "trips.GetByID", func(d *data) error {
		trip, ok := d.trips[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &trip
		return nil
	})
	return out, err
}

// List returns one page of trips, newest first.
func (r *TripRepository) List(ctx context.Context, filter repository.TripFilter, page domain.PageRequest) ([]*domain.Trip, int, error) {
	var matches []*domain.Trip
	err := r.acc.read(ctx, "trips.List", func(d *data) error {
		for _, trip := range d.trips {
			if filter.Status != "" && trip.Status != filter.Status {
				continue
			}
			matches = append(matches, &trip)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})
	return window(matches, page), len(matches), nil
}

// Update updates the mutable fields of an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	return r.acc.write(ctx, "trips.Update", func(d *data) error {
		stored, ok := d.trips[trip.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if trip.InvoiceID != "" {
			if _, ok := d.invoices[trip.InvoiceID]; !ok {
				return repository.ErrNotFound
			}
		}
		trip.UpdatedAt = time.Now().UTC()
		stored.Status = trip.Status
		stored.Tip = trip.Tip
		stored.CompletedAt = trip.CompletedAt
		stored.InvoiceID = trip.InvoiceID
		stored.UpdatedAt = trip.UpdatedAt
		d.trips[trip.ID] = stored
		return nil
	})
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
