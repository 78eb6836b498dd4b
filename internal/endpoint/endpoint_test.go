package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"taxi24/internal/contract"
	"taxi24/internal/domain"
	"taxi24/internal/logger"
	"taxi24/internal/redis"
	"taxi24/internal/repository/memory"
	"taxi24/internal/rpc"
	"taxi24/internal/service"
)

type stubLocations struct{}

func (stubLocations) UpdateLocation(context.Context, string, domain.Point) error { return nil }

func (stubLocations) FindNearby(context.Context, domain.Point, float64) ([]redis.DriverLocation, error) {
	return nil, nil
}

func (stubLocations) Replace(_ context.Context, drivers []*domain.Driver) (int, error) {
	return len(drivers), nil
}

type fixture struct {
	router    *rpc.Router
	driver    *domain.Driver
	passenger *domain.Passenger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()
	store := memory.NewStore()

	settings := service.NewSettingService(store.Settings(), log)
	if err := settings.Seed(ctx, service.DefaultSettings("10")); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	driver := &domain.Driver{ID: uuid.NewString(), Name: "Luis", LastName: "Pérez", Status: domain.DriverStatusAvailable}
	if err := store.Drivers().Create(ctx, driver); err != nil {
		t.Fatalf("create driver: %v", err)
	}
	passenger := &domain.Passenger{ID: uuid.NewString(), Name: "Ana", LastName: "Gómez", Status: domain.PassengerStatusAvailable}
	if err := store.Passengers().Create(ctx, passenger); err != nil {
		t.Fatalf("create passenger: %v", err)
	}

	invoices := service.NewInvoiceService(store, store.Invoices(), nil, log)
	e := New(
		service.NewDriverService(store.Drivers(), stubLocations{}, log),
		service.NewPassengerService(store.Passengers()),
		service.NewTripService(store, store.Trips(), store.Drivers(), store.Passengers(), store.Invoices(), invoices, log),
		invoices,
		log,
	)
	router := rpc.NewRouter("dispatch", log)
	e.Register(router)

	return &fixture{router: router, driver: driver, passenger: passenger}
}

// call dispatches payload and decodes the reply data into out. It returns the
// error body when the call failed.
func (f *fixture) call(t *testing.T, pattern string, payload, out any) *rpc.ErrorBody {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	var env rpc.Envelope
	if err := json.Unmarshal(f.router.Dispatch(context.Background(), pattern, body), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Error != nil {
		return env.Error
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return nil
}

func TestRegister_AllPatterns(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if got := len(f.router.Patterns()); got != 10 {
		t.Errorf("expected 10 patterns, got %d", got)
	}
}

func TestTripLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	var created contract.Trip
	errBody := f.call(t, contract.PatternCreateTrip, contract.CreateTripRequest{
		DriverID:               f.driver.ID,
		PassengerID:            f.passenger.ID,
		StartCoordinates:       []float64{-66.9036, 10.5061},
		DestinationCoordinates: []float64{-66.9005, 10.5092},
		PaymentType:            "CASH",
	}, &created)
	if errBody != nil {
		t.Fatalf("create trip failed: %+v", errBody)
	}
	if created.Status != "ACTIVE" || created.Distance != 0.484 {
		t.Errorf("unexpected trip %+v", created)
	}
	if created.Driver == nil || created.Driver.Status != "TRIP_IN_PROGRESS" {
		t.Errorf("expected reserved driver, got %+v", created.Driver)
	}

	var completed contract.Trip
	if errBody := f.call(t, contract.PatternCompleteTrip, contract.IDRequest{ID: created.ID}, &completed); errBody != nil {
		t.Fatalf("complete trip failed: %+v", errBody)
	}
	if completed.Status != "COMPLETED" || completed.CompletedAt == nil || completed.Invoice == nil {
		t.Fatalf("unexpected completed trip %+v", completed)
	}
	if completed.Invoice.InvoiceNumber != 1 || completed.Invoice.Totals.Total != 6.3 {
		t.Errorf("unexpected invoice %+v", completed.Invoice)
	}

	var invoice contract.Invoice
	if errBody := f.call(t, contract.PatternGetInvoiceByID, contract.IDRequest{ID: completed.Invoice.ID}, &invoice); errBody != nil {
		t.Fatalf("get invoice failed: %+v", errBody)
	}
	if invoice.To.Name != "Ana" || invoice.Items[0].Description != "Luis Pérez - Servicio de transporte" {
		t.Errorf("unexpected invoice %+v", invoice)
	}

	errBody = f.call(t, contract.PatternCompleteTrip, contract.IDRequest{ID: created.ID}, nil)
	if errBody == nil || errBody.StatusCode != http.StatusConflict || errBody.Message != "Trip is not active" {
		t.Errorf("expected conflict on second completion, got %+v", errBody)
	}

	var trips contract.Page[contract.Trip]
	if errBody := f.call(t, contract.PatternGetTrips, contract.ListTripsRequest{Status: "COMPLETED"}, &trips); errBody != nil {
		t.Fatalf("list trips failed: %+v", errBody)
	}
	if trips.TotalRecords != 1 || trips.Items[0].Invoice == nil {
		t.Errorf("unexpected trips page %+v", trips)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tooFar := 5.0
	lat, lon := 10.5, -66.9

	tests := []struct {
		name       string
		pattern    string
		payload    any
		wantStatus int
		wantMsg    string
	}{
		{
			name:    "malformed coordinates",
			pattern: contract.PatternCreateTrip,
			payload: contract.CreateTripRequest{
				DriverID:               f.driver.ID,
				PassengerID:            f.passenger.ID,
				StartCoordinates:       []float64{-66.9},
				DestinationCoordinates: []float64{-66.9005, 10.5092},
				PaymentType:            "CASH",
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    service.ErrInvalidStartCoordinates.Error(),
		},
		{
			name:    "unknown driver",
			pattern: contract.PatternCreateTrip,
			payload: contract.CreateTripRequest{
				DriverID:               uuid.NewString(),
				PassengerID:            f.passenger.ID,
				StartCoordinates:       []float64{-66.9036, 10.5061},
				DestinationCoordinates: []float64{-66.9005, 10.5092},
				PaymentType:            "CARD",
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Driver not found",
		},
		{
			name:       "unknown trip",
			pattern:    contract.PatternCompleteTrip,
			payload:    contract.IDRequest{ID: uuid.NewString()},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Trip not found",
		},
		{
			name:       "malformed passenger id",
			pattern:    contract.PatternGetPassengerByID,
			payload:    contract.IDRequest{ID: "42"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    service.ErrInvalidPassengerID.Error(),
		},
		{
			name:       "nearby radius too large",
			pattern:    contract.PatternGetDriversNearby,
			payload:    contract.NearbyDriversRequest{Lat: &lat, Lon: &lon, MaxDistance: &tooFar},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "max-distance must be less than 3 KM.",
		},
		{
			name:       "nearby without position",
			pattern:    contract.PatternGetDriversNearby,
			payload:    contract.NearbyDriversRequest{},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "lat, lon, and max-distance must be provided together",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errBody := f.call(t, tt.pattern, tt.payload, nil)
			if errBody == nil {
				t.Fatal("expected an error reply")
			}
			if errBody.StatusCode != tt.wantStatus || errBody.Message != tt.wantMsg {
				t.Errorf("expected %d %q, got %d %q", tt.wantStatus, tt.wantMsg, errBody.StatusCode, errBody.Message)
			}
		})
	}
}

func TestDriverQueries(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	var driver contract.Driver
	if errBody := f.call(t, contract.PatternUpdateDriverLocation, contract.UpdateDriverLocationRequest{
		ID:          f.driver.ID,
		Coordinates: []float64{-66.91, 10.5},
	}, &driver); errBody != nil {
		t.Fatalf("update location failed: %+v", errBody)
	}
	if driver.LastCoordinates == nil || driver.LastCoordinates.Coordinates != [2]float64{-66.91, 10.5} {
		t.Errorf("unexpected coordinates %+v", driver.LastCoordinates)
	}

	var page contract.Page[contract.Driver]
	if errBody := f.call(t, contract.PatternGetDrivers, contract.ListDriversRequest{Status: "AVAILABLE"}, &page); errBody != nil {
		t.Fatalf("list drivers failed: %+v", errBody)
	}
	if page.TotalRecords != 1 || page.Items[0].ID != f.driver.ID || page.HasNextPage {
		t.Errorf("unexpected page %+v", page)
	}
}
