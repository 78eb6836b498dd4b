package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taxi24/internal/apperr"
	"taxi24/internal/domain"
	"taxi24/internal/logger"
	"taxi24/internal/redis"
	"taxi24/internal/repository"
)

const (
	// DefaultNearbyLimit is the page size of nearby searches.
	DefaultNearbyLimit = 3

	// MaxNearbyDistanceKm is both the default and the largest search radius.
	MaxNearbyDistanceKm = 3.0
)

// DriverService handles driver queries and location updates.
type DriverService struct {
	drivers   repository.DriverRepository
	locations redis.LocationIndex
	log       logger.Logger
}

// NewDriverService creates a new DriverService.
func NewDriverService(drivers repository.DriverRepository, locations redis.LocationIndex, log logger.Logger) *DriverService {
	return &DriverService{
		drivers:   drivers,
		locations: locations,
		log:       log,
	}
}

// GeoQuery is an optional radius search around a position.
type GeoQuery struct {
	Latitude    *float64
	Longitude   *float64
	MaxDistance *float64 // km
}

// positioned reports whether both coordinates are present.
func (q GeoQuery) positioned() bool {
	return q.Latitude != nil && q.Longitude != nil
}

// resolve validates the query and returns its origin and radius.
func (q GeoQuery) resolve() (domain.Point, float64, error) {
	if q.Latitude == nil || q.Longitude == nil {
		return domain.Point{}, 0, apperr.BadRequest(msgNearbyParamsTogether)
	}
	origin := domain.Point{Longitude: *q.Longitude, Latitude: *q.Latitude}
	if !origin.Valid() {
		return domain.Point{}, 0, ErrInvalidLocation
	}

	radius := MaxNearbyDistanceKm
	if q.MaxDistance != nil {
		radius = *q.MaxDistance
	}
	if radius > MaxNearbyDistanceKm {
		return domain.Point{}, 0, apperr.BadRequest(msgMaxDistanceTooLarge)
	}
	if !(radius > 0) {
		return domain.Point{}, 0, apperr.BadRequest(msgMaxDistanceNotPositive)
	}
	return origin, radius, nil
}

// ListDriversRequest selects a page of drivers. When lat and lon are both
// present only AVAILABLE drivers inside the radius are listed, closest first.
// A partial geo query is ignored.
type ListDriversRequest struct {
	Page   domain.PageRequest
	Status domain.DriverStatus
	Geo    GeoQuery
}

// ListDrivers returns a page of drivers.
func (s *DriverService) ListDrivers(ctx context.Context, req ListDriversRequest) (domain.Page[*domain.Driver], error) {
	if req.Status != "" && !req.Status.Valid() {
		return domain.Page[*domain.Driver]{}, ErrInvalidStatus
	}
	page := req.Page.Normalize(domain.DefaultLimit)

	if req.Geo.positioned() {
		nearby, err := s.nearby(ctx, req.Geo, page)
		if err != nil {
			return domain.Page[*domain.Driver]{}, err
		}
		return domain.MapPage(nearby, func(d *domain.NearbyDriver) *domain.Driver { return &d.Driver }), nil
	}

	drivers, total, err := s.drivers.List(ctx, repository.DriverFilter{Status: req.Status}, page)
	if err != nil {
		return domain.Page[*domain.Driver]{}, fmt.Errorf("list drivers: %w", err)
	}
	return domain.NewPage(drivers, total, page), nil
}

// NearbyDriversRequest selects AVAILABLE drivers around a position.
type NearbyDriversRequest struct {
	Page domain.PageRequest
	Geo  GeoQuery
}

// NearbyDrivers returns AVAILABLE drivers within the radius, closest first,
// each annotated with its distance.
func (s *DriverService) NearbyDrivers(ctx context.Context, req NearbyDriversRequest) (domain.Page[*domain.NearbyDriver], error) {
	return s.nearby(ctx, req.Geo, req.Page.Normalize(DefaultNearbyLimit))
}

func (s *DriverService) nearby(ctx context.Context, geo GeoQuery, page domain.PageRequest) (domain.Page[*domain.NearbyDriver], error) {
	origin, radius, err := geo.resolve()
	if err != nil {
		return domain.Page[*domain.NearbyDriver]{}, err
	}

	locations, err := s.locations.FindNearby(ctx, origin, radius)
	if err != nil {
		return domain.Page[*domain.NearbyDriver]{}, fmt.Errorf("search driver locations: %w", err)
	}

	ids := make([]string, 0, len(locations))
	for _, loc := range locations {
		ids = append(ids, loc.DriverID)
	}
	drivers, err := s.drivers.GetByIDs(ctx, ids)
	if err != nil {
		return domain.Page[*domain.NearbyDriver]{}, fmt.Errorf("load nearby drivers: %w", err)
	}
	byID := indexBy(drivers, func(d *domain.Driver) string { return d.ID })

	available := make([]*domain.NearbyDriver, 0, len(locations))
	for _, loc := range locations {
		driver, ok := byID[loc.DriverID]
		if !ok || driver.Status != domain.DriverStatusAvailable {
			continue
		}
		available = append(available, &domain.NearbyDriver{Driver: *driver, DistanceKm: loc.DistanceKm})
	}

	return domain.NewPage(window(available, page), len(available), page), nil
}

// GetDriver returns a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidDriverID
	}
	driver, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgDriverNotFound)
	}
	return driver, nil
}

// UpdateLocationRequest contains the parameters for updating driver location.
type UpdateLocationRequest struct {
	DriverID    string
	Coordinates domain.Point
}

// UpdateLocation records a driver's position in the database and the geo index.
func (s *DriverService) UpdateLocation(ctx context.Context, req UpdateLocationRequest) (*domain.Driver, error) {
	if _, err := uuid.Parse(req.DriverID); err != nil {
		return nil, ErrInvalidDriverID
	}
	if !req.Coordinates.Valid() {
		return nil, ErrInvalidLocation
	}

	if err := s.drivers.UpdateLocation(ctx, req.DriverID, req.Coordinates); err != nil {
		return nil, notFound(err, msgDriverNotFound)
	}
	if err := s.locations.UpdateLocation(ctx, req.DriverID, req.Coordinates); err != nil {
		return nil, fmt.Errorf("index driver location: %w", err)
	}

	return s.GetDriver(ctx, req.DriverID)
}

// RebuildLocationIndex reloads every known driver position into the geo index.
func (s *DriverService) RebuildLocationIndex(ctx context.Context) error {
	drivers, err := s.drivers.ListWithCoordinates(ctx)
	if err != nil {
		return fmt.Errorf("load driver locations: %w", err)
	}
	n, err := s.locations.Replace(ctx, drivers)
	if err != nil {
		return fmt.Errorf("replace location index: %w", err)
	}
	s.log.Info(ctx, "driver location index rebuilt", "drivers", n)
	return nil
}

// window cuts the requested page out of an in-memory result set.
func window[T any](items []T, page domain.PageRequest) []T {
	start := page.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
