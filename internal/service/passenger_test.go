package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"taxi24/internal/apperr"
	"taxi24/internal/domain"
)

func TestListPassengers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	for i := 0; i < 12; i++ {
		env.addPassenger(t, "Rider", "", domain.PassengerStatusAvailable)
	}
	env.addPassenger(t, "Busy", "", domain.PassengerStatusTripInProgress)

	first, err := env.passengers.ListPassengers(ctx, ListPassengersRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(first.Items) != 10 || first.TotalRecords != 13 || first.TotalPages != 2 || !first.HasNextPage {
		t.Errorf("unexpected first page: %d items, %d/%d/%v", len(first.Items), first.TotalRecords, first.TotalPages, first.HasNextPage)
	}

	second, err := env.passengers.ListPassengers(ctx, ListPassengersRequest{Page: domain.PageRequest{Page: 2}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(second.Items) != 3 || second.HasNextPage {
		t.Errorf("unexpected second page: %d items, next=%v", len(second.Items), second.HasNextPage)
	}

	busy, err := env.passengers.ListPassengers(ctx, ListPassengersRequest{Status: domain.PassengerStatusTripInProgress})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if busy.TotalRecords != 1 {
		t.Errorf("expected one busy passenger, got %d", busy.TotalRecords)
	}
}

func TestGetPassenger(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	passenger := env.addPassenger(t, "Ana", "Gómez", domain.PassengerStatusAvailable)

	got, err := env.passengers.GetPassenger(context.Background(), passenger.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Ana" {
		t.Errorf("unexpected passenger %+v", got)
	}

	_, err = env.passengers.GetPassenger(context.Background(), uuid.New().String())
	assertKind(t, err, apperr.KindNotFound)
	assertMessage(t, err, "Passenger not found")

	_, err = env.passengers.GetPassenger(context.Background(), "p1")
	if !errors.Is(err, ErrInvalidPassengerID) {
		t.Errorf("expected ErrInvalidPassengerID, got %v", err)
	}
}
