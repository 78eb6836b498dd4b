package domain

import "time"

// PassengerStatus represents the current status of a passenger.
type PassengerStatus string

const (
	PassengerStatusAvailable      PassengerStatus = "AVAILABLE"
	PassengerStatusTripInProgress PassengerStatus = "TRIP_IN_PROGRESS"
)

// Valid reports whether s is a known passenger status.
func (s PassengerStatus) Valid() bool {
	return s == PassengerStatusAvailable || s == PassengerStatusTripInProgress
}

// Passenger represents a rider in the system.
type Passenger struct {
	ID        string
	Name      string
	LastName  string
	Status    PassengerStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
