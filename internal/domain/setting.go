package domain

import "time"

// Setting keys used by invoice issuance.
const (
	SettingInvoiceNumber = "InvoiceNumber"
	SettingTaxPercentage = "TaxPercentaje"
)

// Setting is a process-wide key/value configuration record.
type Setting struct {
	ID        string
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
