package endpoint

import (
	"context"

	"taxi24/internal/contract"
	"taxi24/internal/domain"
	"taxi24/internal/rpc"
	"taxi24/internal/service"
)

func (e *Endpoints) getPassengers(ctx context.Context, body []byte) (any, error) {
	var req contract.ListPassengersRequest
	if err := rpc.Bind(body, &req); err != nil {
		return nil, err
	}

	page, err := e.passengers.ListPassengers(ctx, service.ListPassengersRequest{
		Page:   pageRequest(req.Pagination),
		Status: domain.PassengerStatus(req.Status),
	})
	if err != nil {
		return nil, err
	}
	return contract.NewPage(page, contract.NewPassenger), nil
}

func (e *Endpoints) getPassengerByID(ctx context.Context, body []byte) (any, error) {
	id, err := bindID(body)
	if err != nil {
		return nil, err
	}
	passenger, err := e.passengers.GetPassenger(ctx, id)
	if err != nil {
		return nil, err
	}
	return contract.NewPassenger(passenger), nil
}
