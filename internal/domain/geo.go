package domain

import "math"

// Point is a WGS84 position. Wire formats order it as [longitude, latitude].
type Point struct {
	Longitude float64
	Latitude  float64
}

// NewPoint builds a point from a [longitude, latitude] pair.
func NewPoint(coordinates [2]float64) Point {
	return Point{Longitude: coordinates[0], Latitude: coordinates[1]}
}

// Coordinates returns the point as a [longitude, latitude] pair.
func (p Point) Coordinates() [2]float64 {
	return [2]float64{p.Longitude, p.Latitude}
}

// Valid reports whether both components are finite and within range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Longitude) || math.IsNaN(p.Latitude) ||
		math.IsInf(p.Longitude, 0) || math.IsInf(p.Latitude, 0) {
		return false
	}
	return p.Longitude >= -180 && p.Longitude <= 180 &&
		p.Latitude >= -90 && p.Latitude <= 90
}
