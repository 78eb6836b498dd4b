package memory

import (
	"context"
	"sort"
	"time"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

// DriverRepository is an in-memory implementation of repository.DriverRepository.
type DriverRepository struct {
	acc accessor
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	return r.acc.write(ctx, "drivers.Create", func(d *data) error {
		if _, ok := d.drivers[driver.ID]; ok {
			return repository.ErrConflict
		}
		if driver.CreatedAt.IsZero() {
			driver.CreatedAt = time.Now().UTC()
		}
		driver.UpdatedAt = driver.CreatedAt
		d.drivers[driver.ID] = copyDriver(*driver)
		return nil
	})
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	var out *domain.Driver
	err := r.acc.read(ctx, "drivers.GetByID", func(d *data) error {
		driver, ok := d.drivers[id]
		if !ok {
			return repository.ErrNotFound
		}
		driver = copyDriver(driver)
		out = &driver
		return nil
	})
	return out, err
}

// GetByIDs retrieves the drivers with the given IDs.
func (r *DriverRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Driver, error) {
	out := []*domain.Driver{}
	err := r.acc.read(ctx, "drivers.GetByIDs", func(d *data) error {
		for _, id := range ids {
			if driver, ok := d.drivers[id]; ok {
				driver = copyDriver(driver)
				out = append(out, &driver)
			}
		}
		return nil
	})
	return out, err
}

// List returns one page of drivers ordered by creation time.
func (r *DriverRepository) List(ctx context.Context, filter repository.DriverFilter, page domain.PageRequest) ([]*domain.Driver, int, error) {
	var matches []*domain.Driver
	err := r.acc.read(ctx, "drivers.List", func(d *data) error {
		for _, driver := range d.drivers {
			if filter.Status != "" && driver.Status != filter.Status {
				continue
			}
			driver = copyDriver(driver)
			matches = append(matches, &driver)
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

// ListWithCoordinates returns every driver that has reported a position.
func (r *DriverRepository) ListWithCoordinates(ctx context.Context) ([]*domain.Driver, error) {
	out := []*domain.Driver{}
	err := r.acc.read(ctx, "drivers.ListWithCoordinates", func(d *data) error {
		for _, driver := range d.drivers {
			if driver.LastCoordinates == nil {
				continue
			}
			driver = copyDriver(driver)
			out = append(out, &driver)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// Update saves name, last name and status of an existing driver.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	return r.acc.write(ctx, "drivers.Update", func(d *data) error {
		stored, ok := d.drivers[driver.ID]
		if !ok {
			return repository.ErrNotFound
		}
		driver.UpdatedAt = time.Now().UTC()
		stored.Name = driver.Name
		stored.LastName = driver.LastName
		stored.Status = driver.Status
		stored.UpdatedAt = driver.UpdatedAt
		d.drivers[driver.ID] = stored
		return nil
	})
}

// UpdateLocation stores the last reported position of a driver.
func (r *DriverRepository) UpdateLocation(ctx context.Context, id string, point domain.Point) error {
	return r.acc.write(ctx, "drivers.UpdateLocation", func(d *data) error {
		stored, ok := d.drivers[id]
		if !ok {
			return repository.ErrNotFound
		}
		stored.LastCoordinates = &point
		stored.UpdatedAt = time.Now().UTC()
		d.drivers[id] = stored
		return nil
	})
}

// window cuts the requested page out of a sorted result set.
func window[T any](items []T, page domain.PageRequest) []T {
	start := page.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
