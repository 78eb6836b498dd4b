package repository

import (
	"context"

	"taxi24/internal/domain"
)

// InvoiceRepository defines the persistence operations for invoices.
// Invoices are never updated once created.
type InvoiceRepository interface {
	// Create persists a new invoice. A second invoice for the same resource
	// or with an already used number is rejected.
	Create(ctx context.Context, invoice *domain.Invoice) error

	// GetByID retrieves an invoice by ID.
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)

	// GetByIDs retrieves the invoices with the given IDs.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Invoice, error)
}
