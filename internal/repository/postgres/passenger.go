package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

const passengerColumns = `id, name, last_name, status, created_at, updated_at`

// PassengerRepository is a PostgreSQL implementation of repository.PassengerRepository.
type PassengerRepository struct {
	q    Querier
	lock bool
}

// NewPassengerRepository creates a new PostgreSQL passenger repository.
func NewPassengerRepository(db *sql.DB) *PassengerRepository {
	return &PassengerRepository{q: db}
}

// NewPassengerRepositoryWithTx creates a passenger repository using a transaction.
func NewPassengerRepositoryWithTx(tx *sql.Tx) *PassengerRepository {
	return &PassengerRepository{q: tx, lock: true}
}

func scanPassenger(row rowScanner) (*domain.Passenger, error) {
	var passenger domain.Passenger
	if err := row.Scan(
		&passenger.ID,
		&passenger.Name,
		&passenger.LastName,
		&passenger.Status,
		&passenger.CreatedAt,
		&passenger.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &passenger, nil
}

func scanPassengers(rows *sql.Rows) ([]*domain.Passenger, error) {
	defer rows.Close()

	passengers := []*domain.Passenger{}
	for rows.Next() {
		passenger, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		passengers = append(passengers, passenger)
	}
	return passengers, rows.Err()
}

// Create adds a new passenger.
func (r *PassengerRepository) Create(ctx context.Context, passenger *domain.Passenger) error {
	query := `
		INSERT INTO passengers (id, name, last_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if passenger.CreatedAt.IsZero() {
		passenger.CreatedAt = time.Now().UTC()
	}
	passenger.UpdatedAt = passenger.CreatedAt

	_, err := r.q.ExecContext(ctx, query,
		passenger.ID,
		passenger.Name,
		passenger.LastName,
		passenger.Status,
		passenger.CreatedAt,
		passenger.UpdatedAt,
	)
	return translateError(err)
}

// GetByID retrieves a passenger by ID.
func (r *PassengerRepository) GetByID(ctx context.Context, id string) (*domain.Passenger, error) {
	query := `SELECT ` + passengerColumns + ` FROM passengers WHERE id = $1` + lockClause(r.lock)

	passenger, err := scanPassenger(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return passenger, nil
}

// GetByIDs retrieves the passengers with the given IDs.
func (r *PassengerRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Passenger, error) {
	if len(ids) == 0 {
		return []*domain.Passenger{}, nil
	}

	query := `SELECT ` + passengerColumns + ` FROM passengers WHERE id = ANY($1)`
	rows, err := r.q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, translateError(err)
	}
	return scanPassengers(rows)
}

// List returns one page of passengers ordered by creation time.
func (r *PassengerRepository) List(ctx context.Context, filter repository.PassengerFilter, page domain.PageRequest) ([]*domain.Passenger, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM passengers WHERE ($1 = '' OR status = $1)`
	if err := r.q.QueryRowContext(ctx, countQuery, string(filter.Status)).Scan(&total); err != nil {
		return nil, 0, translateError(err)
	}

	query := `
		SELECT ` + passengerColumns + `
		FROM passengers
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.q.QueryContext(ctx, query, string(filter.Status), page.Limit, page.Offset())
	if err != nil {
		return nil, 0, translateError(err)
	}
	passengers, err := scanPassengers(rows)
	if err != nil {
		return nil, 0, err
	}
	return passengers, total, nil
}

// Update saves name, last name and status of an existing passenger.
func (r *PassengerRepository) Update(ctx context.Context, passenger *domain.Passenger) error {
	query := `UPDATE passengers SET name = $1, last_name = $2, status = $3, updated_at = $4 WHERE id = $5`

	passenger.UpdatedAt = time.Now().UTC()
	result, err := r.q.ExecContext(ctx, query, passenger.Name, passenger.LastName, passenger.Status, passenger.UpdatedAt, passenger.ID)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

// Ensure PassengerRepository implements repository.PassengerRepository.
var _ repository.PassengerRepository = (*PassengerRepository)(nil)
