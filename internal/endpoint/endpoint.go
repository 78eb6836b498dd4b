// Package endpoint binds the dispatch services to RPC message patterns.
package endpoint

import (
	"context"

	"taxi24/internal/contract"
	"taxi24/internal/domain"
	"taxi24/internal/logger"
	"taxi24/internal/rpc"
	"taxi24/internal/service"
)

// Endpoints translates RPC payloads into service calls and service results
// into wire responses.
type Endpoints struct {
	drivers    *service.DriverService
	passengers *service.PassengerService
	trips      *service.TripService
	invoices   *service.InvoiceService
	log        logger.Logger
}

func New(
	drivers *service.DriverService,
	passengers *service.PassengerService,
	trips *service.TripService,
	invoices *service.InvoiceService,
	log logger.Logger,
) *Endpoints {
	return &Endpoints{
		drivers:    drivers,
		passengers: passengers,
		trips:      trips,
		invoices:   invoices,
		log:        log,
	}
}

// Register adds every pattern served by the dispatch service to r.
func (e *Endpoints) Register(r *rpc.Router) {
	r.Handle(contract.PatternGetDrivers, e.getDrivers)
	r.Handle(contract.PatternGetDriversNearby, e.getDriversNearby)
	r.Handle(contract.PatternGetDriverByID, e.getDriverByID)
	r.Handle(contract.PatternUpdateDriverLocation, e.updateDriverLocation)
	r.Handle(contract.PatternGetPassengers, e.getPassengers)
	r.Handle(contract.PatternGetPassengerByID, e.getPassengerByID)
	r.Handle(contract.PatternGetTrips, e.getTrips)
	r.Handle(contract.PatternCreateTrip, e.createTrip)
	r.Handle(contract.PatternCompleteTrip, e.completeTrip)
	r.Handle(contract.PatternGetInvoiceByID, e.getInvoiceByID)
}

func pageRequest(p contract.Pagination) domain.PageRequest {
	return domain.PageRequest{Page: p.Page, Limit: p.Limit}
}

// toPoint converts a [longitude, latitude] pair, reporting invalid when the
// pair is malformed or out of range.
func toPoint(coordinates []float64, invalid error) (domain.Point, error) {
	if len(coordinates) != 2 {
		return domain.Point{}, invalid
	}
	p := domain.NewPoint([2]float64{coordinates[0], coordinates[1]})
	if !p.Valid() {
		return domain.Point{}, invalid
	}
	return p, nil
}

func bindID(body []byte) (string, error) {
	var req contract.IDRequest
	if err := rpc.Bind(body, &req); err != nil {
		return "", err
	}
	return req.ID, nil
}

func (e *Endpoints) getInvoiceByID(ctx context.Context, body []byte) (any, error) {
	id, err := bindID(body)
	if err != nil {
		return nil, err
	}
	invoice, err := e.invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return contract.NewInvoice(invoice), nil
}
