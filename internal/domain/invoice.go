package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResourceType names the kind of entity an invoice bills.
type ResourceType string

const (
	ResourceTypeTrip ResourceType = "Trip"
)

// InvoiceRecipient is the party the invoice is issued to.
type InvoiceRecipient struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
}

// InvoiceItem is one billed line.
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceTotals holds the computed amounts of an invoice.
type InvoiceTotals struct {
	Subtotal      decimal.Decimal
	TaxPercentage decimal.Decimal
	Tax           decimal.Decimal
	Tip           decimal.Decimal
	Total         decimal.Decimal
}

// Invoice is a billing record, issued once per completed trip and never
// mutated afterwards.
type Invoice struct {
	ID            string
	ResourceID    string
	ResourceType  ResourceType
	InvoiceNumber int64
	To            InvoiceRecipient
	Items         []InvoiceItem
	Totals        InvoiceTotals
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
