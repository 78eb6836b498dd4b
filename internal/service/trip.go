package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"taxi24/internal/apperr"
	"taxi24/internal/domain"
	"taxi24/internal/logger"
	"taxi24/internal/metrics"
	"taxi24/internal/pricing"
	"taxi24/internal/repository"
)

const transportServiceSuffix = " - Servicio de transporte"

// TripService runs the trip lifecycle: creation, completion and invoicing.
type TripService struct {
	tx         repository.Transactor
	trips      repository.TripRepository
	drivers    repository.DriverRepository
	passengers repository.PassengerRepository
	invoices   repository.InvoiceRepository
	issuer     *InvoiceService
	log        logger.Logger
	now        func() time.Time
}

// NewTripService creates a new TripService.
func NewTripService(
	tx repository.Transactor,
	trips repository.TripRepository,
	drivers repository.DriverRepository,
	passengers repository.PassengerRepository,
	invoices repository.InvoiceRepository,
	issuer *InvoiceService,
	log logger.Logger,
) *TripService {
	return &TripService{
		tx:         tx,
		trips:      trips,
		drivers:    drivers,
		passengers: passengers,
		invoices:   invoices,
		issuer:     issuer,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateTripRequest contains the parameters for creating a trip.
type CreateTripRequest struct {
	DriverID               string
	PassengerID            string
	StartCoordinates       domain.Point
	DestinationCoordinates domain.Point
	PaymentType            domain.PaymentType
	Tip                    *float64
}

func (r CreateTripRequest) validate() error {
	if _, err := uuid.Parse(r.DriverID); err != nil {
		return ErrInvalidDriverID
	}
	if _, err := uuid.Parse(r.PassengerID); err != nil {
		return ErrInvalidPassengerID
	}
	if !r.StartCoordinates.Valid() {
		return ErrInvalidStartCoordinates
	}
	if !r.DestinationCoordinates.Valid() {
		return ErrInvalidDestinationCoordinates
	}
	if !r.PaymentType.Valid() {
		return ErrInvalidPaymentType
	}
	if r.Tip != nil && !(*r.Tip >= 0) {
		return ErrInvalidTip
	}
	return nil
}

// CreateTrip reserves an available driver and passenger and starts an
// ACTIVE trip between them. Nothing is written unless every step succeeds.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.TripView, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	distance := pricing.DistanceKm(req.StartCoordinates, req.DestinationCoordinates)
	price := pricing.Price(distance)
	tip := 0.0
	if req.Tip != nil {
		tip = *req.Tip
	}

	view := &domain.TripView{}
	err := withinUnitOfWork(ctx, s.tx, func(uow repository.UnitOfWork) error {
		driver, err := uow.Drivers().GetByID(ctx, req.DriverID)
		if err != nil {
			return notFound(err, msgDriverNotFound)
		}
		if driver.Status != domain.DriverStatusAvailable {
			return apperr.InvalidState(msgDriverNotAvailable)
		}

		passenger, err := uow.Passengers().GetByID(ctx, req.PassengerID)
		if err != nil {
			return notFound(err, msgPassengerNotFound)
		}
		if passenger.Status != domain.PassengerStatusAvailable {
			return apperr.InvalidState(msgPassengerNotAvailable)
		}

		driver.Status = domain.DriverStatusTripInProgress
		if err := uow.Drivers().Update(ctx, driver); err != nil {
			return fmt.Errorf("reserve driver: %w", notFound(err, msgDriverNotFound))
		}

		passenger.Status = domain.PassengerStatusTripInProgress
		if err := uow.Passengers().Update(ctx, passenger); err != nil {
			return fmt.Errorf("reserve passenger: %w", notFound(err, msgPassengerNotFound))
		}

		now := s.now()
		trip := &domain.Trip{
			ID:                     uuid.New().String(),
			DriverID:               driver.ID,
			PassengerID:            passenger.ID,
			Status:                 domain.TripStatusActive,
			StartCoordinates:       req.StartCoordinates,
			DestinationCoordinates: req.DestinationCoordinates,
			Distance:               distance,
			Price:                  price,
			Tip:                    tip,
			PaymentType:            req.PaymentType,
			StartAt:                now,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if err := uow.Trips().Create(ctx, trip); err != nil {
			return fmt.Errorf("insert trip: %w", err)
		}

		view.Trip = trip
		view.Driver = driver
		view.Passenger = passenger
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTrip(metrics.TripCreated)
	s.log.Info(logger.WithTripID(ctx, view.Trip.ID), "trip created",
		"driver_id", view.Trip.DriverID,
		"passenger_id", view.Trip.PassengerID,
		"distance_km", view.Trip.Distance,
		"price", view.Trip.Price,
	)
	return view, nil
}

// CompleteTrip finishes an ACTIVE trip, releases its driver and passenger and
// issues the trip's invoice unless one already exists.
func (s *TripService) CompleteTrip(ctx context.Context, tripID string) (*domain.TripView, error) {
	if _, err := uuid.Parse(tripID); err != nil {
		return nil, ErrInvalidTripID
	}
	ctx = logger.WithTripID(ctx, tripID)

	view := &domain.TripView{}
	issued := false
	err := withinUnitOfWork(ctx, s.tx, func(uow repository.UnitOfWork) error {
		trip, err := uow.Trips().GetByID(ctx, tripID)
		if err != nil {
			return notFound(err, msgTripNotFound)
		}
		if !trip.Complete(s.now()) {
			return apperr.InvalidState(msgTripNotActive)
		}

		driver, err := uow.Drivers().GetByID(ctx, trip.DriverID)
		if err != nil {
			return notFound(err, msgDriverNotFound)
		}
		driver.Status = domain.DriverStatusAvailable
		if err := uow.Drivers().Update(ctx, driver); err != nil {
			return fmt.Errorf("release driver: %w", notFound(err, msgDriverNotFound))
		}

		passenger, err := uow.Passengers().GetByID(ctx, trip.PassengerID)
		if err != nil {
			return notFound(err, msgPassengerNotFound)
		}
		passenger.Status = domain.PassengerStatusAvailable
		if err := uow.Passengers().Update(ctx, passenger); err != nil {
			return fmt.Errorf("release passenger: %w", notFound(err, msgPassengerNotFound))
		}

		var invoice *domain.Invoice
		if trip.HasInvoice() {
			invoice, err = uow.Invoices().GetByID(ctx, trip.InvoiceID)
			if err != nil {
				return notFound(err, msgInvoiceNotFound)
			}
		} else {
			invoice, err = s.issuer.Issue(ctx, uow, tripInvoiceRequest(trip, driver, passenger))
			if err != nil {
				return err
			}
			trip.InvoiceID = invoice.ID
			issued = true
		}

		if err := uow.Trips().Update(ctx, trip); err != nil {
			return fmt.Errorf("save trip: %w", notFound(err, msgTripNotFound))
		}

		view.Trip = trip
		view.Driver = driver
		view.Passenger = passenger
		view.Invoice = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTrip(metrics.TripCompleted)
	if issued {
		metrics.RecordInvoice(view.Invoice.Totals.Total.InexactFloat64())
	}
	s.log.Info(ctx, "trip completed",
		"invoice_id", view.Invoice.ID,
		"invoice_number", view.Invoice.InvoiceNumber,
	)
	return view, nil
}

func tripInvoiceRequest(trip *domain.Trip, driver *domain.Driver, passenger *domain.Passenger) IssueInvoiceRequest {
	return IssueInvoiceRequest{
		ResourceID:   trip.ID,
		ResourceType: domain.ResourceTypeTrip,
		To: domain.InvoiceRecipient{
			Name:     passenger.Name,
			LastName: passenger.LastName,
		},
		Items: []InvoiceItemRequest{{
			Description: driver.Name + " " + driver.LastName + transportServiceSuffix,
			Quantity:    1,
			UnitPrice:   decimal.NewFromFloat(trip.Price),
		}},
		Tip: decimal.NewFromFloat(trip.Tip),
	}
}

// ListTripsRequest selects a page of trips.
type ListTripsRequest struct {
	Page   domain.PageRequest
	Status domain.TripStatus
}

// ListTrips returns a page of trips with driver, passenger and invoice resolved.
func (s *TripService) ListTrips(ctx context.Context, req ListTripsRequest) (domain.Page[*domain.TripView], error) {
	if req.Status != "" && !req.Status.Valid() {
		return domain.Page[*domain.TripView]{}, ErrInvalidStatus
	}
	page := req.Page.Normalize(domain.DefaultLimit)

	trips, total, err := s.trips.List(ctx, repository.TripFilter{Status: req.Status}, page)
	if err != nil {
		return domain.Page[*domain.TripView]{}, fmt.Errorf("list trips: %w", err)
	}

	driverIDs := make([]string, 0, len(trips))
	passengerIDs := make([]string, 0, len(trips))
	invoiceIDs := make([]string, 0, len(trips))
	for _, trip := range trips {
		driverIDs = append(driverIDs, trip.DriverID)
		passengerIDs = append(passengerIDs, trip.PassengerID)
		if trip.HasInvoice() {
			invoiceIDs = append(invoiceIDs, trip.InvoiceID)
		}
	}

	drivers, err := s.drivers.GetByIDs(ctx, unique(driverIDs))
	if err != nil {
		return domain.Page[*domain.TripView]{}, fmt.Errorf("load trip drivers: %w", err)
	}
	passengers, err := s.passengers.GetByIDs(ctx, unique(passengerIDs))
	if err != nil {
		return domain.Page[*domain.TripView]{}, fmt.Errorf("load trip passengers: %w", err)
	}
	invoices, err := s.invoices.GetByIDs(ctx, invoiceIDs)
	if err != nil {
		return domain.Page[*domain.TripView]{}, fmt.Errorf("load trip invoices: %w", err)
	}

	driverByID := indexBy(drivers, func(d *domain.Driver) string { return d.ID })
	passengerByID := indexBy(passengers, func(p *domain.Passenger) string { return p.ID })
	invoiceByID := indexBy(invoices, func(i *domain.Invoice) string { return i.ID })

	views := make([]*domain.TripView, 0, len(trips))
	for _, trip := range trips {
		views = append(views, &domain.TripView{
			Trip:      trip,
			Driver:    driverByID[trip.DriverID],
			Passenger: passengerByID[trip.PassengerID],
			Invoice:   invoiceByID[trip.InvoiceID],
		})
	}
	return domain.NewPage(views, total, page), nil
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func indexBy[T any](items []T, key func(T) string) map[string]T {
	m := make(map[string]T, len(items))
	for _, item := range items {
		m[key(item)] = item
	}
	return m
}
