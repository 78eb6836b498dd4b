package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"taxi24/internal/domain"
)

const driverLocationKey = "drivers:locations"

// DriverLocation is a driver position returned by a radius search.
type DriverLocation struct {
	DriverID   string
	Point      domain.Point
	DistanceKm float64
}

// LocationStore keeps the last known driver positions in a Redis GEO set.
type LocationStore struct {
	client redis.UniversalClient
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client redis.UniversalClient) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation stores a driver's location using GEOADD.
func (s *LocationStore) UpdateLocation(ctx context.Context, driverID string, point domain.Point) error {
	return s.client.GeoAdd(ctx, driverLocationKey, &redis.GeoLocation{
		Name:      driverID,
		Longitude: point.Longitude,
		Latitude:  point.Latitude,
	}).Err()
}

// FindNearby returns the drivers within radiusKm of origin, closest first.
func (s *LocationStore) FindNearby(ctx context.Context, origin domain.Point, radiusKm float64) ([]DriverLocation, error) {
	results, err := s.client.GeoRadius(ctx, driverLocationKey, origin.Longitude, origin.Latitude, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]DriverLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, DriverLocation{
			DriverID:   r.Name,
			Point:      domain.Point{Longitude: r.Longitude, Latitude: r.Latitude},
			DistanceKm: r.Dist,
		})
	}

	return locations, nil
}

// Replace swaps the whole index for the given drivers in one transaction.
// Drivers without coordinates are skipped.
func (s *LocationStore) Replace(ctx context.Context, drivers []*domain.Driver) (int, error) {
	locations := make([]*redis.GeoLocation, 0, len(drivers))
	for _, d := range drivers {
		if d.LastCoordinates == nil {
			continue
		}
		locations = append(locations, &redis.GeoLocation{
			Name:      d.ID,
			Longitude: d.LastCoordinates.Longitude,
			Latitude:  d.LastCoordinates.Latitude,
		})
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, driverLocationKey)
		if len(locations) > 0 {
			pipe.GeoAdd(ctx, driverLocationKey, locations...)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(locations), nil
}
