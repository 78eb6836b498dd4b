package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"

	"taxi24/internal/apperr"
	"taxi24/internal/domain"
	"taxi24/internal/logger"
	"taxi24/internal/pricing"
	"taxi24/internal/redis"
	"taxi24/internal/repository"
	"taxi24/internal/repository/memory"
)

// testEnv wires every service on top of one in-memory store.
type testEnv struct {
	store      *memory.Store
	locations  *fakeLocationIndex
	cache      *fakeInvoiceCache
	settings   *SettingService
	invoices   *InvoiceService
	trips      *TripService
	drivers    *DriverService
	passengers *PassengerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	log := logger.Nop()
	locations := newFakeLocationIndex()
	cache := newFakeInvoiceCache()

	invoices := NewInvoiceService(store, store.Invoices(), cache, log)
	env := &testEnv{
		store:      store,
		locations:  locations,
		cache:      cache,
		settings:   NewSettingService(store.Settings(), log),
		invoices:   invoices,
		trips:      NewTripService(store, store.Trips(), store.Drivers(), store.Passengers(), store.Invoices(), invoices, log),
		drivers:    NewDriverService(store.Drivers(), locations, log),
		passengers: NewPassengerService(store.Passengers()),
	}
	return env
}

// seedSettings stores the invoice counter and tax rate.
func (e *testEnv) seedSettings(t *testing.T, invoiceNumber, taxPercentage string) {
	t.Helper()
	err := e.settings.Seed(context.Background(), map[string]string{
		domain.SettingInvoiceNumber: invoiceNumber,
		domain.SettingTaxPercentage: taxPercentage,
	})
	if err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}
}

func (e *testEnv) addDriver(t *testing.T, name, lastName string, status domain.DriverStatus) *domain.Driver {
	t.Helper()
	driver := &domain.Driver{
		ID:       uuid.New().String(),
		Name:     name,
		LastName: lastName,
		Status:   status,
	}
	if err := e.store.Drivers().Create(context.Background(), driver); err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}
	return driver
}

func (e *testEnv) addPassenger(t *testing.T, name, lastName string, status domain.PassengerStatus) *domain.Passenger {
	t.Helper()
	passenger := &domain.Passenger{
		ID:       uuid.New().String(),
		Name:     name,
		LastName: lastName,
		Status:   status,
	}
	if err := e.store.Passengers().Create(context.Background(), passenger); err != nil {
		t.Fatalf("failed to create passenger: %v", err)
	}
	return passenger
}

func (e *testEnv) driverStatus(t *testing.T, id string) domain.DriverStatus {
	t.Helper()
	driver, err := e.store.Drivers().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to load driver: %v", err)
	}
	return driver.Status
}

func (e *testEnv) passengerStatus(t *testing.T, id string) domain.PassengerStatus {
	t.Helper()
	passenger, err := e.store.Passengers().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to load passenger: %v", err)
	}
	return passenger.Status
}

func (e *testEnv) settingValue(t *testing.T, key string) string {
	t.Helper()
	setting, err := e.store.Settings().GetByKey(context.Background(), key)
	if err != nil {
		t.Fatalf("failed to load setting %s: %v", key, err)
	}
	return setting.Value
}

func (e *testEnv) tripCount(t *testing.T) int {
	t.Helper()
	_, total, err := e.store.Trips().List(context.Background(), repository.TripFilter{}, domain.PageRequest{Page: 1, Limit: 1})
	if err != nil {
		t.Fatalf("failed to count trips: %v", err)
	}
	return total
}

func (e *testEnv) invoiceCount(t *testing.T) int {
	t.Helper()
	invoices, err := e.store.Invoices().All(context.Background())
	if err != nil {
		t.Fatalf("failed to list invoices: %v", err)
	}
	return len(invoices)
}

var (
	caracasStart = domain.Point{Longitude: -66.9036, Latitude: 10.5061}
	caracasDest  = domain.Point{Longitude: -66.9005, Latitude: 10.5092}
)

func createTripRequest(driverID, passengerID string) CreateTripRequest {
	return CreateTripRequest{
		DriverID:               driverID,
		PassengerID:            passengerID,
		StartCoordinates:       caracasStart,
		DestinationCoordinates: caracasDest,
		PaymentType:            domain.PaymentTypeCash,
	}
}

func assertKind(t *testing.T, err error, want apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	kind, ok := apperr.KindOf(err)
	if !ok || kind != want {
		t.Fatalf("expected %v error, got %v (%v)", want, kind, err)
	}
}

func assertMessage(t *testing.T, err error, want string) {
	t.Helper()
	var e *apperr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *apperr.Error, got %T (%v)", err, err)
	}
	if e.Message != want {
		t.Errorf("expected message %q, got %q", want, e.Message)
	}
}

func float64Ptr(v float64) *float64 { return &v }

// fakeLocationIndex is an in-memory redis.LocationIndex.
type fakeLocationIndex struct {
	mu        sync.Mutex
	positions map[string]domain.Point
	findErr   error
}

func newFakeLocationIndex() *fakeLocationIndex {
	return &fakeLocationIndex{positions: make(map[string]domain.Point)}
}

func (f *fakeLocationIndex) UpdateLocation(_ context.Context, driverID string, point domain.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positions[driverID] = point
	return nil
}

func (f *fakeLocationIndex) FindNearby(_ context.Context, origin domain.Point, radiusKm float64) ([]redis.DriverLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}

	var out []redis.DriverLocation
	for id, p := range f.positions {
		d := pricing.DistanceKm(origin, p)
		if d <= radiusKm || math.Abs(d-radiusKm) < 1e-9 {
			out = append(out, redis.DriverLocation{DriverID: id, Point: p, DistanceKm: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

func (f *fakeLocationIndex) Replace(_ context.Context, drivers []*domain.Driver) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.positions = make(map[string]domain.Point)
	for _, d := range drivers {
		if d.LastCoordinates != nil {
			f.positions[d.ID] = *d.LastCoordinates
		}
	}
	return len(f.positions), nil
}

var _ redis.LocationIndex = (*fakeLocationIndex)(nil)

// fakeInvoiceCache is an in-memory redis.InvoiceCache that counts hits.
type fakeInvoiceCache struct {
	mu       sync.Mutex
	invoices map[string]*domain.Invoice
	hits     int
}

func newFakeInvoiceCache() *fakeInvoiceCache {
	return &fakeInvoiceCache{invoices: make(map[string]*domain.Invoice)}
}

func (f *fakeInvoiceCache) GetInvoice(_ context.Context, id string) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	f.hits++
	return invoice, nil
}

func (f *fakeInvoiceCache) SetInvoice(_ context.Context, invoice *domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices[invoice.ID] = invoice
	return nil
}

var _ redis.InvoiceCache = (*fakeInvoiceCache)(nil)
