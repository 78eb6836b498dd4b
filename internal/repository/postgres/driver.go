package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

const driverColumns = `id, name, last_name, status, last_longitude, last_latitude, created_at, updated_at`

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q    Querier
	lock bool
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
// Reads by ID lock the returned row.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx, lock: true}
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var driver domain.Driver
	var lon, lat sql.NullFloat64
	if err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.LastName,
		&driver.Status,
		&lon,
		&lat,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lon.Valid && lat.Valid {
		driver.LastCoordinates = &domain.Point{Longitude: lon.Float64, Latitude: lat.Float64}
	}
	return &driver, nil
}

func scanDrivers(rows *sql.Rows) ([]*domain.Driver, error) {
	defer rows.Close()

	drivers := []*domain.Driver{}
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, last_name, status, last_longitude, last_latitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var lon, lat sql.NullFloat64
	if driver.LastCoordinates != nil {
		lon = sql.NullFloat64{Float64: driver.LastCoordinates.Longitude, Valid: true}
		lat = sql.NullFloat64{Float64: driver.LastCoordinates.Latitude, Valid: true}
	}

	now := time.Now().UTC()
	if driver.CreatedAt.IsZero() {
		driver.CreatedAt = now
	}
	driver.UpdatedAt = driver.CreatedAt

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.LastName,
		driver.Status,
		lon,
		lat,
		driver.CreatedAt,
		driver.UpdatedAt,
	)
	return translateError(err)
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1` + lockClause(r.lock)

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return driver, nil
}

// GetByIDs retrieves the drivers with the given IDs.
func (r *DriverRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Driver, error) {
	if len(ids) == 0 {
		return []*domain.Driver{}, nil
	}

	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = ANY($1)`
	rows, err := r.q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, translateError(err)
	}
	return scanDrivers(rows)
}

// List returns one page of drivers ordered by creation time.
func (r *DriverRepository) List(ctx context.Context, filter repository.DriverFilter, page domain.PageRequest) ([]*domain.Driver, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM drivers WHERE ($1 = '' OR status = $1)`
	if err := r.q.QueryRowContext(ctx, countQuery, string(filter.Status)).Scan(&total); err != nil {
		return nil, 0, translateError(err)
	}

	query := `
		SELECT ` + driverColumns + `
		FROM drivers
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.q.QueryContext(ctx, query, string(filter.Status), page.Limit, page.Offset())
	if err != nil {
		return nil, 0, translateError(err)
	}
	drivers, err := scanDrivers(rows)
	if err != nil {
		return nil, 0, err
	}
	return drivers, total, nil
}

// ListWithCoordinates returns every driver that has reported a position.
func (r *DriverRepository) ListWithCoordinates(ctx context.Context) ([]*domain.Driver, error) {
	query := `
		SELECT ` + driverColumns + `
		FROM drivers
		WHERE last_longitude IS NOT NULL AND last_latitude IS NOT NULL
		ORDER BY id
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, translateError(err)
	}
	return scanDrivers(rows)
}

// Update saves name, last name and status of an existing driver.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	query := `UPDATE drivers SET name = $1, last_name = $2, status = $3, updated_at = $4 WHERE id = $5`

	driver.UpdatedAt = time.Now().UTC()
	result, err := r.q.ExecContext(ctx, query, driver.Name, driver.LastName, driver.Status, driver.UpdatedAt, driver.ID)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

// UpdateLocation stores the last reported position of a driver.
func (r *DriverRepository) UpdateLocation(ctx context.Context, id string, point domain.Point) error {
	query := `UPDATE drivers SET last_longitude = $1, last_latitude = $2, updated_at = $3 WHERE id = $4`

	result, err := r.q.ExecContext(ctx, query, point.Longitude, point.Latitude, time.Now().UTC(), id)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
