package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"taxi24/internal/domain"
)

// InvoiceCacheTTL bounds how long an invoice stays cached. Invoices never
// change once issued.
const InvoiceCacheTTL = 10 * time.Minute

const invoiceCachePrefix = "cache:invoice:"

// CacheStore caches immutable entities in Redis.
type CacheStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client redis.UniversalClient, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = InvoiceCacheTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

// GetInvoice returns the cached invoice, or nil on a cache miss.
func (s *CacheStore) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	data, err := s.client.Get(ctx, invoiceCachePrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var invoice domain.Invoice
	if err := json.Unmarshal(data, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// SetInvoice caches an invoice.
func (s *CacheStore) SetInvoice(ctx context.Context, invoice *domain.Invoice) error {
	data, err := json.Marshal(invoice)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, invoiceCachePrefix+invoice.ID, data, s.ttl).Err()
}
