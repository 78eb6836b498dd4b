// Package pricing computes trip distances and fares.
//
// The fare is a placeholder linear model, not a tariff engine.
package pricing

import (
	"math"

	"taxi24/internal/domain"
)

const (
	// earthRadiusM is the equatorial radius used for great-circle distances.
	earthRadiusM = 6378137.0

	BasePrice = 5.0
	PerKmRate = 1.5
)

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// DistanceKm returns the great-circle distance between a and b in km, with
// metre precision.
func DistanceKm(a, b domain.Point) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	deltaLat := lat2 - lat1
	deltaLon := toRadians(b.Longitude - a.Longitude)

	h := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(deltaLon/2), 2)
	if h > 1 {
		h = 1
	}
	angle := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusM*angle) / 1000
}

// Price returns the fare for a trip of the given length.
func Price(distanceKm float64) float64 {
	return BasePrice + PerKmRate*distanceKm
}
