package redis

import (
	"context"

	"taxi24/internal/domain"
)

// LocationIndex defines the driver geo index operations.
type LocationIndex interface {
	UpdateLocation(ctx context.Context, driverID string, point domain.Point) error
	FindNearby(ctx context.Context, origin domain.Point, radiusKm float64) ([]DriverLocation, error)
	Replace(ctx context.Context, drivers []*domain.Driver) (int, error)
}

// InvoiceCache defines the invoice cache operations.
type InvoiceCache interface {
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	SetInvoice(ctx context.Context, invoice *domain.Invoice) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationIndex = (*LocationStore)(nil)
	_ InvoiceCache  = (*CacheStore)(nil)
)
