package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"taxi24/internal/apperr"
	"taxi24/internal/domain"
	"taxi24/internal/logger"
	"taxi24/internal/metrics"
	"taxi24/internal/redis"
	"taxi24/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// InvoiceService issues and reads invoices.
type InvoiceService struct {
	tx       repository.Transactor
	invoices repository.InvoiceRepository
	cache    redis.InvoiceCache
	log      logger.Logger
	now      func() time.Time
}

// NewInvoiceService creates a new InvoiceService. cache may be nil.
func NewInvoiceService(
	tx repository.Transactor,
	invoices repository.InvoiceRepository,
	cache redis.InvoiceCache,
	log logger.Logger,
) *InvoiceService {
	return &InvoiceService{
		tx:       tx,
		invoices: invoices,
		cache:    cache,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// InvoiceItemRequest is one line to bill.
type InvoiceItemRequest struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// IssueInvoiceRequest contains the parameters for issuing an invoice.
type IssueInvoiceRequest struct {
	ResourceID   string
	ResourceType domain.ResourceType
	To           domain.InvoiceRecipient
	Items        []InvoiceItemRequest
	Tip          decimal.Decimal
}

// round2 rounds half away from zero to two decimal places.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeTotals prices the items and derives subtotal, tax, tip and total.
func ComputeTotals(items []InvoiceItemRequest, taxPercentage, tip decimal.Decimal) ([]domain.InvoiceItem, domain.InvoiceTotals) {
	lines := make([]domain.InvoiceItem, 0, len(items))
	sum := decimal.Zero
	for _, item := range items {
		total := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines = append(lines, domain.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       total,
		})
		sum = sum.Add(total)
	}

	subtotal := round2(sum)
	tax := round2(subtotal.Mul(taxPercentage).Div(hundred))
	tip = round2(tip)

	return lines, domain.InvoiceTotals{
		Subtotal:      subtotal,
		TaxPercentage: taxPercentage,
		Tax:           tax,
		Tip:           tip,
		Total:         round2(subtotal.Add(tax).Add(tip)),
	}
}

// Issue creates the next numbered invoice inside uow. When uow is nil the
// invoice is issued in a unit of work of its own.
func (s *InvoiceService) Issue(ctx context.Context, uow repository.UnitOfWork, req IssueInvoiceRequest) (*domain.Invoice, error) {
	if err := validateInvoiceRequest(req); err != nil {
		return nil, err
	}

	if uow == nil {
		var invoice *domain.Invoice
		err := withinUnitOfWork(ctx, s.tx, func(uow repository.UnitOfWork) error {
			var err error
			invoice, err = s.issue(ctx, uow, req)
			return err
		})
		if err != nil {
			return nil, err
		}
		metrics.RecordInvoice(invoice.Totals.Total.InexactFloat64())
		return invoice, nil
	}

	return s.issue(ctx, uow, req)
}

func (s *InvoiceService) issue(ctx context.Context, uow repository.UnitOfWork, req IssueInvoiceRequest) (*domain.Invoice, error) {
	// Locks the counter row until the unit of work ends.
	counter, err := uow.Settings().GetByKey(ctx, domain.SettingInvoiceNumber)
	if err != nil {
		return nil, notFound(err, msgSettingNotFound)
	}
	taxSetting, err := uow.Settings().GetByKey(ctx, domain.SettingTaxPercentage)
	if err != nil {
		return nil, notFound(err, msgSettingNotFound)
	}

	current, err := strconv.ParseInt(counter.Value, 10, 64)
	if err != nil || current < 0 {
		return nil, apperr.BadRequest(fmt.Sprintf("setting %s is not a valid number: %q", counter.Key, counter.Value))
	}
	taxPercentage, err := decimal.NewFromString(taxSetting.Value)
	if err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("setting %s is not a valid number: %q", taxSetting.Key, taxSetting.Value))
	}

	items, totals := ComputeTotals(req.Items, taxPercentage, req.Tip)

	next := current + 1
	if err := uow.Settings().UpdateValue(ctx, counter.ID, strconv.FormatInt(next, 10)); err != nil {
		return nil, fmt.Errorf("advance invoice number: %w", err)
	}

	now := s.now()
	invoice := &domain.Invoice{
		ID:            uuid.New().String(),
		ResourceID:    req.ResourceID,
		ResourceType:  req.ResourceType,
		InvoiceNumber: next,
		To:            req.To,
		Items:         items,
		Totals:        totals,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uow.Invoices().Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	s.log.Info(ctx, "invoice issued",
		"invoice_id", invoice.ID,
		"invoice_number", invoice.InvoiceNumber,
		"resource_id", invoice.ResourceID,
		"total", invoice.Totals.Total.StringFixed(2),
	)
	return invoice, nil
}

func validateInvoiceRequest(req IssueInvoiceRequest) error {
	if req.ResourceID == "" {
		return apperr.BadRequest("resourceId is required")
	}
	if req.ResourceType == "" {
		return apperr.BadRequest("resourceType is required")
	}
	if len(req.Items) == 0 {
		return apperr.BadRequest("an invoice needs at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return apperr.BadRequest("item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return apperr.BadRequest("item unitPrice must not be negative")
		}
	}
	if req.Tip.IsNegative() {
		return ErrInvalidTip
	}
	return nil
}

// Get returns an invoice by ID, consulting the cache first when configured.
func (s *InvoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidInvoiceID
	}

	if s.cache != nil {
		cached, err := s.cache.GetInvoice(ctx, id)
		if err != nil {
			s.log.Warn(ctx, "invoice cache read failed", "invoice_id", id, "error", err.Error())
		} else if cached != nil {
			return cached, nil
		}
	}

	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgInvoiceNotFound)
	}

	if s.cache != nil {
		if err := s.cache.SetInvoice(ctx, invoice); err != nil {
			s.log.Warn(ctx, "invoice cache write failed", "invoice_id", id, "error", err.Error())
		}
	}
	return invoice, nil
}
