package domain

import "time"

// DriverStatus represents the current status of a driver.
type DriverStatus string

const (
	DriverStatusUnavailable    DriverStatus = "UNAVAILABLE"
	DriverStatusAvailable      DriverStatus = "AVAILABLE"
	DriverStatusTripInProgress DriverStatus = "TRIP_IN_PROGRESS"
)

// Valid reports whether s is a known driver status.
func (s DriverStatus) Valid() bool {
	switch s {
	case DriverStatusUnavailable, DriverStatusAvailable, DriverStatusTripInProgress:
		return true
	}
	return false
}

// Driver represents a driver in the system.
type Driver struct {
	ID              string
	Name            string
	LastName        string
	Status          DriverStatus
	LastCoordinates *Point // nil until the driver reports a position
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName returns "name lastName".
func (d *Driver) FullName() string {
	if d.LastName == "" {
		return d.Name
	}
	return d.Name + " " + d.LastName
}

// NearbyDriver is a driver annotated with its distance to a search origin.
type NearbyDriver struct {
	Driver
	DistanceKm float64
}
