package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

// PassengerService handles passenger queries.
type PassengerService struct {
	passengers repository.PassengerRepository
}

// NewPassengerService creates a new PassengerService.
func NewPassengerService(passengers repository.PassengerRepository) *PassengerService {
	return &PassengerService{passengers: passengers}
}

// ListPassengersRequest selects a page of passengers.
type ListPassengersRequest struct {
	Page   domain.PageRequest
	Status domain.PassengerStatus
}

// ListPassengers returns a page of passengers.
func (s *PassengerService) ListPassengers(ctx context.Context, req ListPassengersRequest) (domain.Page[*domain.Passenger], error) {
	if req.Status != "" && !req.Status.Valid() {
		return domain.Page[*domain.Passenger]{}, ErrInvalidStatus
	}
	page := req.Page.Normalize(domain.DefaultLimit)

	passengers, total, err := s.passengers.List(ctx, repository.PassengerFilter{Status: req.Status}, page)
	if err != nil {
		return domain.Page[*domain.Passenger]{}, fmt.Errorf("list passengers: %w", err)
	}
	return domain.NewPage(passengers, total, page), nil
}

// GetPassenger returns a passenger by ID.
func (s *PassengerService) GetPassenger(ctx context.Context, id string) (*domain.Passenger, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidPassengerID
	}
	passenger, err := s.passengers.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgPassengerNotFound)
	}
	return passenger, nil
}
