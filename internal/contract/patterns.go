// Package contract defines the message patterns and payloads exchanged
// between the gateway and the dispatch service.
package contract

// Message patterns served by the dispatch service.
const (
	PatternGetDrivers           = "get_drivers"
	PatternGetDriversNearby     = "get_drivers_nearby"
	PatternGetDriverByID        = "get_drivers_by_id"
	PatternUpdateDriverLocation = "update_driver_location"
	PatternGetPassengers        = "get_passengers"
	PatternGetPassengerByID     = "get_passengers_by_id"
	PatternGetTrips             = "get_trips"
	PatternCreateTrip           = "create_trip"
	PatternCompleteTrip         = "complete_trip"
	PatternGetInvoiceByID       = "get_invoice_by_id"
)
