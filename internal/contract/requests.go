package contract

// Pagination is embedded by every listing request.
type Pagination struct {
	Page  int `json:"page,omitempty" form:"page" binding:"omitempty,min=1,max=1000000"`
	Limit int `json:"limit,omitempty" form:"limit" binding:"omitempty,min=1,max=100"`
}

// IDRequest addresses a single entity.
type IDRequest struct {
	ID string `json:"id" uri:"id" binding:"required"`
}

// ListDriversRequest is the payload of get_drivers.
type ListDriversRequest struct {
	Pagination
	Status      string   `json:"status,omitempty" form:"status" binding:"omitempty,oneof=UNAVAILABLE AVAILABLE TRIP_IN_PROGRESS"`
	Lat         *float64 `json:"lat,omitempty" form:"lat"`
	Lon         *float64 `json:"lon,omitempty" form:"lon"`
	MaxDistance *float64 `json:"maxDistance,omitempty" form:"max-distance"`
}

// NearbyDriversRequest is the payload of get_drivers_nearby.
type NearbyDriversRequest struct {
	Pagination
	Lat         *float64 `json:"lat,omitempty" form:"lat"`
	Lon         *float64 `json:"lon,omitempty" form:"lon"`
	MaxDistance *float64 `json:"maxDistance,omitempty" form:"max-distance"`
}

// UpdateDriverLocationRequest is the payload of update_driver_location.
type UpdateDriverLocationRequest struct {
	ID          string    `json:"id"`
	Coordinates []float64 `json:"coordinates" binding:"required,len=2"`
}

// ListPassengersRequest is the payload of get_passengers.
type ListPassengersRequest struct {
	Pagination
	Status string `json:"status,omitempty" form:"status" binding:"omitempty,oneof=AVAILABLE TRIP_IN_PROGRESS"`
}

// ListTripsRequest is the payload of get_trips.
type ListTripsRequest struct {
	Pagination
	Status string `json:"status,omitempty" form:"status" binding:"omitempty,oneof=ACTIVE COMPLETED"`
}

// CreateTripRequest is the payload of create_trip. Coordinates are
// [longitude, latitude].
type CreateTripRequest struct {
	DriverID               string    `json:"driverId" binding:"required,uuid"`
	PassengerID            string    `json:"passengerId" binding:"required,uuid"`
	StartCoordinates       []float64 `json:"startCoordinates" binding:"required,len=2"`
	DestinationCoordinates []float64 `json:"destinationCoordinates" binding:"required,len=2"`
	PaymentType            string    `json:"paymentType" binding:"required,oneof=CASH CARD"`
	Tip                    *float64  `json:"tip,omitempty" binding:"omitempty,min=0"`
}
