package endpoint

import (
	"context"

	"taxi24/internal/contract"
	"taxi24/internal/domain"
	"taxi24/internal/logger"
	"taxi24/internal/rpc"
	"taxi24/internal/service"
)

func (e *Endpoints) getTrips(ctx context.Context, body []byte) (any, error) {
	var req contract.ListTripsRequest
	if err := rpc.Bind(body, &req); err != nil {
		return nil, err
	}

	page, err := e.trips.ListTrips(ctx, service.ListTripsRequest{
		Page:   pageRequest(req.Pagination),
		Status: domain.TripStatus(req.Status),
	})
	if err != nil {
		return nil, err
	}
	return contract.NewPage(page, contract.NewTrip), nil
}

func (e *Endpoints) createTrip(ctx context.Context, body []byte) (any, error) {
	var req contract.CreateTripRequest
	if err := rpc.Bind(body, &req); err != nil {
		return nil, err
	}

	start, err := toPoint(req.StartCoordinates, service.ErrInvalidStartCoordinates)
	if err != nil {
		return nil, err
	}
	destination, err := toPoint(req.DestinationCoordinates, service.ErrInvalidDestinationCoordinates)
	if err != nil {
		return nil, err
	}

	view, err := e.trips.CreateTrip(ctx, service.CreateTripRequest{
		DriverID:               req.DriverID,
		PassengerID:            req.PassengerID,
		StartCoordinates:       start,
		DestinationCoordinates: destination,
		PaymentType:            domain.PaymentType(req.PaymentType),
		Tip:                    req.Tip,
	})
	if err != nil {
		return nil, err
	}
	return contract.NewTrip(view), nil
}

func (e *Endpoints) completeTrip(ctx context.Context, body []byte) (any, error) {
	id, err := bindID(body)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithTripID(ctx, id)

	view, err := e.trips.CompleteTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	return contract.NewTrip(view), nil
}
