package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusActive    TripStatus = "ACTIVE"
	TripStatusCompleted TripStatus = "COMPLETED"
)

// Valid reports whether s is a known trip status.
func (s TripStatus) Valid() bool {
	return s == TripStatusActive || s == TripStatusCompleted
}

// PaymentType represents how the passenger pays for a trip.
type PaymentType string

const (
	PaymentTypeCash PaymentType = "CASH"
	PaymentTypeCard PaymentType = "CARD"
)

// Valid reports whether p is a known payment type.
func (p PaymentType) Valid() bool {
	return p == PaymentTypeCash || p == PaymentTypeCard
}

// Trip represents a single ride binding one driver and one passenger.
type Trip struct {
	ID                     string
	DriverID               string
	PassengerID            string
	Status                 TripStatus
	StartCoordinates       Point
	DestinationCoordinates Point
	Distance               float64 // km
	Price                  float64
	Tip                    float64
	PaymentType            PaymentType
	StartAt                time.Time
	CompletedAt            time.Time // zero while ACTIVE
	InvoiceID              string    // empty until the trip is invoiced
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsActive reports whether the trip can still be completed.
func (t *Trip) IsActive() bool {
	return t.Status == TripStatusActive
}

// HasInvoice reports whether an invoice was already issued for the trip.
func (t *Trip) HasInvoice() bool {
	return t.InvoiceID != ""
}

// Complete moves an ACTIVE trip to COMPLETED. It returns false and leaves the
// trip untouched for any other status.
func (t *Trip) Complete(at time.Time) bool {
	if !t.IsActive() {
		return false
	}
	t.Status = TripStatusCompleted
	t.CompletedAt = at
	return true
}

// TripView is a trip with its references resolved.
type TripView struct {
	Trip      *Trip
	Driver    *Driver
	Passenger *Passenger
	Invoice   *Invoice
}
