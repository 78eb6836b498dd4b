package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

const invoiceColumns = `
	id, resource_id, resource_type, invoice_number, to_name, to_last_name, items,
	subtotal, tax_percentage, tax, tip, total, created_at, updated_at`

// InvoiceRepository is a PostgreSQL implementation of repository.InvoiceRepository.
type InvoiceRepository struct {
	q Querier
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository.
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{q: db}
}

// NewInvoiceRepositoryWithTx creates an invoice repository using a transaction.
func NewInvoiceRepositoryWithTx(tx *sql.Tx) *InvoiceRepository {
	return &InvoiceRepository{q: tx}
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var invoice domain.Invoice
	var items []byte

	if err := row.Scan(
		&invoice.ID,
		&invoice.ResourceID,
		&invoice.ResourceType,
		&invoice.InvoiceNumber,
		&invoice.To.Name,
		&invoice.To.LastName,
		&items,
		&invoice.Totals.Subtotal,
		&invoice.Totals.TaxPercentage,
		&invoice.Totals.Tax,
		&invoice.Totals.Tip,
		&invoice.Totals.Total,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &invoice.Items); err != nil {
		return nil, fmt.Errorf("decode items of invoice %s: %w", invoice.ID, err)
	}
	return &invoice, nil
}

// Create persists a new invoice.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, resource_id, resource_type, invoice_number, to_name, to_last_name, items,
			subtotal, tax_percentage, tax, tip, total, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	items, err := json.Marshal(invoice.Items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}

	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now().UTC()
	}
	invoice.UpdatedAt = invoice.CreatedAt

	_, err = r.q.ExecContext(ctx, query,
		invoice.ID,
		invoice.ResourceID,
		invoice.ResourceType,
		invoice.InvoiceNumber,
		invoice.To.Name,
		invoice.To.LastName,
		string(items),
		invoice.Totals.Subtotal,
		invoice.Totals.TaxPercentage,
		invoice.Totals.Tax,
		invoice.Totals.Tip,
		invoice.Totals.Total,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	return translateError(err)
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	invoice, err := scanInvoice(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return invoice, nil
}

// GetByIDs retrieves the invoices with the given IDs.
func (r *InvoiceRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Invoice, error) {
	if len(ids) == 0 {
		return []*domain.Invoice{}, nil
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ANY($1)`
	rows, err := r.q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	invoices := []*domain.Invoice{}
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// Ensure InvoiceRepository implements repository.InvoiceRepository.
var _ repository.InvoiceRepository = (*InvoiceRepository)(nil)
