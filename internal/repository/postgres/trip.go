package postgres

import (
	"context"
	"database/sql"
	"time"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

const tripColumns = `
	id, driver_id, passenger_id, status,
	start_longitude, start_latitude, destination_longitude, destination_latitude,
	distance, price, tip, payment_type, start_at, completed_at, invoice_id,
	created_at, updated_at`

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q    Querier
	lock bool
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx, lock: true}
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var completedAt sql.NullTime
	var invoiceID sql.NullString

	if err := row.Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.PassengerID,
		&trip.Status,
		&trip.StartCoordinates.Longitude,
		&trip.StartCoordinates.Latitude,
		&trip.DestinationCoordinates.Longitude,
		&trip.DestinationCoordinates.Latitude,
		&trip.Distance,
		&trip.Price,
		&trip.Tip,
		&trip.PaymentType,
		&trip.StartAt,
		&completedAt,
		&invoiceID,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if completedAt.Valid {
		trip.CompletedAt = completedAt.Time
	}
	if invoiceID.Valid {
		trip.InvoiceID = invoiceID.String
	}
	return &trip, nil
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (
			id, driver_id, passenger_id, status,
			start_longitude, start_latitude, destination_longitude, destination_latitude,
			distance, price, tip, payment_type, start_at, completed_at, invoice_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC()
	}
	trip.UpdatedAt = trip.CreatedAt

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.PassengerID,
		trip.Status,
		trip.StartCoordinates.Longitude,
		trip.StartCoordinates.Latitude,
		trip.DestinationCoordinates.Longitude,
		trip.DestinationCoordinates.Latitude,
		trip.Distance,
		trip.Price,
		trip.Tip,
		trip.PaymentType,
		trip.StartAt,
		toNullTime(trip.CompletedAt),
		toNullString(trip.InvoiceID),
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	return translateError(err)
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1` + lockClause(r.lock)

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return trip, nil
}

// List returns one page of trips, newest first.
func (r *TripRepository) List(ctx context.Context, filter repository.TripFilter, page domain.PageRequest) ([]*domain.Trip, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM trips WHERE ($1 = '' OR status = $1)`
	if err := r.q.QueryRowContext(ctx, countQuery, string(filter.Status)).Scan(&total); err != nil {
		return nil, 0, translateError(err)
	}

	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.q.QueryContext(ctx, query, string(filter.Status), page.Limit, page.Offset())
	if err != nil {
		return nil, 0, translateError(err)
	}
	defer rows.Close()

	trips := []*domain.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// Update updates the mutable fields of an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET status = $1, tip = $2, completed_at = $3, invoice_id = $4, updated_at = $5
		WHERE id = $6
	`

	trip.UpdatedAt = time.Now().UTC()
	result, err := r.q.ExecContext(ctx, query,
		trip.Status,
		trip.Tip,
		toNullTime(trip.CompletedAt),
		toNullString(trip.InvoiceID),
		trip.UpdatedAt,
		trip.ID,
	)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
