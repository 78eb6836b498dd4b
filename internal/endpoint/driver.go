package endpoint

import (
	"context"

	"taxi24/internal/contract"
	"taxi24/internal/domain"
	"taxi24/internal/rpc"
	"taxi24/internal/service"
)

func (e *Endpoints) getDrivers(ctx context.Context, body []byte) (any, error) {
	var req contract.ListDriversRequest
	if err := rpc.Bind(body, &req); err != nil {
		return nil, err
	}

	page, err := e.drivers.ListDrivers(ctx, service.ListDriversRequest{
		Page:   pageRequest(req.Pagination),
		Status: domain.DriverStatus(req.Status),
		Geo: service.GeoQuery{
			Latitude:    req.Lat,
			Longitude:   req.Lon,
			MaxDistance: req.MaxDistance,
		},
	})
	if err != nil {
		return nil, err
	}
	return contract.NewPage(page, contract.NewDriver), nil
}

func (e *Endpoints) getDriversNearby(ctx context.Context, body []byte) (any, error) {
	var req contract.NearbyDriversRequest
	if err := rpc.Bind(body, &req); err != nil {
		return nil, err
	}

	page, err := e.drivers.NearbyDrivers(ctx, service.NearbyDriversRequest{
		Page: pageRequest(req.Pagination),
		Geo: service.GeoQuery{
			Latitude:    req.Lat,
			Longitude:   req.Lon,
			MaxDistance: req.MaxDistance,
		},
	})
	if err != nil {
		return nil, err
	}
	return contract.NewPage(page, contract.NewNearbyDriver), nil
}

func (e *Endpoints) getDriverByID(ctx context.Context, body []byte) (any, error) {
	id, err := bindID(body)
	if err != nil {
		return nil, err
	}
	driver, err := e.drivers.GetDriver(ctx, id)
	if err != nil {
		return nil, err
	}
	return contract.NewDriver(driver), nil
}

func (e *Endpoints) updateDriverLocation(ctx context.Context, body []byte) (any, error) {
	var req contract.UpdateDriverLocationRequest
	if err := rpc.Bind(body, &req); err != nil {
		return nil, err
	}
	point, err := toPoint(req.Coordinates, service.ErrInvalidLocation)
	if err != nil {
		return nil, err
	}

	driver, err := e.drivers.UpdateLocation(ctx, service.UpdateLocationRequest{
		DriverID:    req.ID,
		Coordinates: point,
	})
	if err != nil {
		return nil, err
	}
	return contract.NewDriver(driver), nil
}
