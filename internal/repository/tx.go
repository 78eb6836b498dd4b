package repository

import "context"

// UnitOfWork groups store operations that commit or roll back together.
// Rows read through its stores stay locked until Commit or Rollback.
type UnitOfWork interface {
	Drivers() DriverRepository
	Passengers() PassengerRepository
	Trips() TripRepository
	Invoices() InvoiceRepository
	Settings() SettingRepository

	Commit() error
	Rollback() error
}

// Transactor starts units of work.
type Transactor interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
