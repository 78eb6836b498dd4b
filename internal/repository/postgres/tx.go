package postgres

import (
	"context"
	"database/sql"

	"taxi24/internal/repository"
)

// Transactor opens PostgreSQL-backed units of work.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// Begin starts a READ COMMITTED transaction.
func (t *Transactor) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	return &unitOfWork{
		tx:         tx,
		drivers:    NewDriverRepositoryWithTx(tx),
		passengers: NewPassengerRepositoryWithTx(tx),
		trips:      NewTripRepositoryWithTx(tx),
		invoices:   NewInvoiceRepositoryWithTx(tx),
		settings:   NewSettingRepositoryWithTx(tx),
	}, nil
}

type unitOfWork struct {
	tx         *sql.Tx
	drivers    *DriverRepository
	passengers *PassengerRepository
	trips      *TripRepository
	invoices   *InvoiceRepository
	settings   *SettingRepository
}

func (u *unitOfWork) Drivers() repository.DriverRepository       { return u.drivers }
func (u *unitOfWork) Passengers() repository.PassengerRepository { return u.passengers }
func (u *unitOfWork) Trips() repository.TripRepository           { return u.trips }
func (u *unitOfWork) Invoices() repository.InvoiceRepository     { return u.invoices }
func (u *unitOfWork) Settings() repository.SettingRepository     { return u.settings }

func (u *unitOfWork) Commit() error {
	return translateError(u.tx.Commit())
}

func (u *unitOfWork) Rollback() error {
	return u.tx.Rollback()
}

// Ensure Transactor implements repository.Transactor.
var _ repository.Transactor = (*Transactor)(nil)
