package service

import (
	"errors"

	"taxi24/internal/apperr"
	"taxi24/internal/repository"
)

// Messages returned to callers.
const (
	msgDriverNotFound         = "Driver not found"
	msgPassengerNotFound      = "Passenger not found"
	msgTripNotFound           = "Trip not found"
	msgInvoiceNotFound        = "Invoice not found"
	msgSettingNotFound        = "Setting not found"
	msgDriverNotAvailable     = "Driver is not available"
	msgPassengerNotAvailable  = "Passenger is not available"
	msgTripNotActive          = "Trip is not active"
	msgNearbyParamsTogether   = "lat, lon, and max-distance must be provided together"
	msgMaxDistanceTooLarge    = "max-distance must be less than 3 KM."
	msgMaxDistanceNotPositive = "max-distance must be greater than 0"
)

var (
	// ErrInvalidDriverID is returned when a driver id is not a UUID.
	ErrInvalidDriverID = apperr.BadRequest("driverId must be a UUID")

	// ErrInvalidPassengerID is returned when a passenger id is not a UUID.
	ErrInvalidPassengerID = apperr.BadRequest("passengerId must be a UUID")

	// ErrInvalidTripID is returned when a trip id is not a UUID.
	ErrInvalidTripID = apperr.BadRequest("tripId must be a UUID")

	// ErrInvalidInvoiceID is returned when an invoice id is not a UUID.
	ErrInvalidInvoiceID = apperr.BadRequest("invoiceId must be a UUID")

	// ErrInvalidStartCoordinates is returned for out of range start coordinates.
	ErrInvalidStartCoordinates = apperr.BadRequest("startCoordinates must be [longitude, latitude] within range")

	// ErrInvalidDestinationCoordinates is returned for out of range destination coordinates.
	ErrInvalidDestinationCoordinates = apperr.BadRequest("destinationCoordinates must be [longitude, latitude] within range")

	// ErrInvalidLocation is returned for out of range driver coordinates.
	ErrInvalidLocation = apperr.BadRequest("coordinates must be [longitude, latitude] within range")

	// ErrInvalidPaymentType is returned for payment types other than CASH and CARD.
	ErrInvalidPaymentType = apperr.BadRequest("paymentType must be one of: CASH, CARD")

	// ErrInvalidTip is returned for negative tips.
	ErrInvalidTip = apperr.BadRequest("tip must not be negative")

	// ErrInvalidStatus is returned when a listing filter names an unknown status.
	ErrInvalidStatus = apperr.BadRequest("status is not valid")
)

// notFound reports a missing entity under msg and passes other errors through.
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}
