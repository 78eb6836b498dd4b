package memory

import (
	"context"
	"time"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

// InvoiceRepository is an in-memory implementation of repository.InvoiceRepository.
type InvoiceRepository struct {
	acc accessor
}

// Create persists a new invoice, enforcing unique numbers and one invoice
// per resource.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.acc.write(ctx, "invoices.Create", func(d *data) error {
		for _, existing := range d.invoices {
			if existing.ID == invoice.ID ||
				existing.InvoiceNumber == invoice.InvoiceNumber ||
				(existing.ResourceType == invoice.ResourceType && existing.ResourceID == invoice.ResourceID) {
				return repository.ErrConflict
			}
		}
		if invoice.CreatedAt.IsZero() {
			invoice.CreatedAt = time.Now().UTC()
		}
		invoice.UpdatedAt = invoice.CreatedAt
		d.invoices[invoice.ID] = copyInvoice(*invoice)
		return nil
	})
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var out *domain.Invoice
	err := r.acc.read(ctx, "invoices.GetByID", func(d *data) error {
		invoice, ok := d.invoices[id]
		if !ok {
			return repository.ErrNotFound
		}
		invoice = copyInvoice(invoice)
		out = &invoice
		return nil
	})
	return out, err
}

// GetByIDs retrieves the invoices with the given IDs.
func (r *InvoiceRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Invoice, error) {
	out := []*domain.Invoice{}
	err := r.acc.read(ctx, "invoices.GetByIDs", func(d *data) error {
		for _, id := range ids {
			if invoice, ok := d.invoices[id]; ok {
				invoice = copyInvoice(invoice)
				out = append(out, &invoice)
			}
		}
		return nil
	})
	return out, err
}

// All returns every stored invoice. Used by tests to inspect numbering.
func (r *InvoiceRepository) All(ctx context.Context) ([]*domain.Invoice, error) {
	out := []*domain.Invoice{}
	err := r.acc.read(ctx, "invoices.All", func(d *data) error {
		for _, invoice := range d.invoices {
			invoice = copyInvoice(invoice)
			out = append(out, &invoice)
		}
		return nil
	})
	return out, err
}

// Ensure InvoiceRepository implements repository.InvoiceRepository.
var _ repository.InvoiceRepository = (*InvoiceRepository)(nil)
