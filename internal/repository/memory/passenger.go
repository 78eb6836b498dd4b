package memory

import (
	"context"
	"sort"
	"time"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

// PassengerRepository is an in-memory implementation of repository.PassengerRepository.
type PassengerRepository struct {
	acc accessor
}

// Create adds a new passenger.
func (r *PassengerRepository) Create(ctx context.Context, passenger *domain.Passenger) error {
	return r.acc.write(ctx, "passengers.Create", func(d *data) error {
		if _, ok := d.passengers[passenger.ID]; ok {
			return repository.ErrConflict
		}
		if passenger.CreatedAt.IsZero() {
			passenger.CreatedAt = time.Now().UTC()
		}
		passenger.UpdatedAt = passenger.CreatedAt
		d.passengers[passenger.ID] = *passenger
		return nil
	})
}

// GetByID retrieves a passenger by ID.
func (r *PassengerRepository) GetByID(ctx context.Context, id string) (*domain.Passenger, error) {
	var out *domain.Passenger
	err := r.acc.read(ctx, "passengers.GetByID", func(d *data) error {
		passenger, ok := d.passengers[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &passenger
		return nil
	})
	return out, err
}

// GetByIDs retrieves the passengers with the given IDs.
func (r *PassengerRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Passenger, error) {
	out := []*domain.Passenger{}
	err := r.acc.read(ctx, "passengers.GetByIDs", func(d *data) error {
		for _, id := range ids {
			if passenger, ok := d.passengers[id]; ok {
				out = append(out, &passenger)
			}
		}
		return nil
	})
	return out, err
}

// List returns one page of passengers ordered by creation time.
func (r *PassengerRepository) List(ctx context.Context, filter repository.PassengerFilter, page domain.PageRequest) ([]*domain.Passenger, int, error) {
	var matches []*domain.Passenger
	err := r.acc.read(ctx, "passengers.List", func(d *data) error {
		for _, passenger := range d.passengers {
			if filter.Status != "" && passenger.Status != filter.Status {
				continue
			}
			matches = append(matches, &passenger)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})
	return window(matches, page), len(matches), nil
}

// Update saves name, last name and status of an existing passenger.
func (r *PassengerRepository) Update(ctx context.Context, passenger *domain.Passenger) error {
	return r.acc.write(ctx, "passengers.Update", func(d *data) error {
		stored, ok := d.passengers[passenger.ID]
		if !ok {
			return repository.ErrNotFound
		}
		passenger.UpdatedAt = time.Now().UTC()
		stored.Name = passenger.Name
		stored.LastName = passenger.LastName
		stored.Status = passenger.Status
		stored.UpdatedAt = passenger.UpdatedAt
		d.passengers[passenger.ID] = stored
		return nil
	})
}

// Ensure PassengerRepository implements repository.PassengerRepository.
var _ repository.PassengerRepository = (*PassengerRepository)(nil)
