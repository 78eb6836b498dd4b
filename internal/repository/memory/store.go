// Package memory is an in-process implementation of the repository
// interfaces. Units of work are serialized: Begin takes an exclusive lock,
// works on a private copy of the data and publishes it on Commit.
package memory

import (
	"context"
	"errors"
	"sync"

	"taxi24/internal/domain"
	"taxi24/internal/repository"
)

// ErrTxDone is returned when a finished unit of work is used again.
var ErrTxDone = errors.New("unit of work already committed or rolled back")

type data struct {
	drivers    map[string]domain.Driver
	passengers map[string]domain.Passenger
	trips      map[string]domain.Trip
	invoices   map[string]domain.Invoice
	settings   map[string]domain.Setting
}

func newData() *data {
	return &data{
		drivers:    make(map[string]domain.Driver),
		passengers: make(map[string]domain.Passenger),
		trips:      make(map[string]domain.Trip),
		invoices:   make(map[string]domain.Invoice),
		settings:   make(map[string]domain.Setting),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.drivers {
		c.drivers[k] = copyDriver(v)
	}
	for k, v := range d.passengers {
		c.passengers[k] = v
	}
	for k, v := range d.trips {
		c.trips[k] = v
	}
	for k, v := range d.invoices {
		c.invoices[k] = copyInvoice(v)
	}
	for k, v := range d.settings {
		c.settings[k] = v
	}
	return c
}

func copyDriver(d domain.Driver) domain.Driver {
	if d.LastCoordinates != nil {
		p := *d.LastCoordinates
		d.LastCoordinates = &p
	}
	return d
}

func copyInvoice(i domain.Invoice) domain.Invoice {
	i.Items = append([]domain.InvoiceItem(nil), i.Items...)
	return i
}

// accessor runs fn against a consistent view of the data.
type accessor interface {
	read(ctx context.Context, op string, fn func(*data) error) error
	write(ctx context.Context, op string, fn func(*data) error) error
}

// Store holds the committed data.
type Store struct {
	txLock sync.Mutex // held by the active unit of work and by direct writes
	mu     sync.RWMutex
	data   *data

	failMu   sync.Mutex
	failures map[string]error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		data:     newData(),
		failures: make(map[string]error),
	}
}

// FailOn makes every later call of op (for example "invoices.Create") return
// err. A nil err clears the failure.
func (s *Store) FailOn(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()

	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) failure(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.failures[op]
}

func (s *Store) read(ctx context.Context, op string, fn func(*data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.failure(op); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(ctx context.Context, op string, fn func(*data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.failure(op); err != nil {
		return err
	}
	s.txLock.Lock()
	defer s.txLock.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Drivers returns a driver store operating on committed data.
func (s *Store) Drivers() *DriverRepository { return &DriverRepository{acc: s} }

// Passengers returns a passenger store operating on committed data.
func (s *Store) Passengers() *PassengerRepository { return &PassengerRepository{acc: s} }

// Trips returns a trip store operating on committed data.
func (s *Store) Trips() *TripRepository { return &TripRepository{acc: s} }

// Invoices returns an invoice store operating on committed data.
func (s *Store) Invoices() *InvoiceRepository { return &InvoiceRepository{acc: s} }

// Settings returns a setting store operating on committed data.
func (s *Store) Settings() *SettingRepository { return &SettingRepository{acc: s} }

// Begin starts a unit of work. It blocks while another one is open.
func (s *Store) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.failure("tx.Begin"); err != nil {
		return nil, err
	}
	s.txLock.Lock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	return &unitOfWork{store: s, work: work}, nil
}

type unitOfWork struct {
	store *Store
	work  *data
	done  bool
}

func (u *unitOfWork) read(ctx context.Context, op string, fn func(*data) error) error {
	if u.done {
		return ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := u.store.failure(op); err != nil {
		return err
	}
	return fn(u.work)
}

func (u *unitOfWork) write(ctx context.Context, op string, fn func(*data) error) error {
	return u.read(ctx, op, fn)
}

func (u *unitOfWork) Drivers() repository.DriverRepository { return &DriverRepository{acc: u} }
func (u *unitOfWork) Passengers() repository.PassengerRepository {
	return &PassengerRepository{acc: u}
}
func (u *unitOfWork) Trips() repository.TripRepository       { return &TripRepository{acc: u} }
func (u *unitOfWork) Invoices() repository.InvoiceRepository { return &InvoiceRepository{acc: u} }
func (u *unitOfWork) Settings() repository.SettingRepository { return &SettingRepository{acc: u} }

func (u *unitOfWork) Commit() error {
	if u.done {
		return ErrTxDone
	}
	if err := u.store.failure("tx.Commit"); err != nil {
		u.release()
		return err
	}

	u.store.mu.Lock()
	u.store.data = u.work
	u.store.mu.Unlock()

	u.release()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return ErrTxDone
	}
	u.release()
	return nil
}

func (u *unitOfWork) release() {
	u.done = true
	u.work = nil
	u.store.txLock.Unlock()
}

// Ensure Store implements repository.Transactor.
var _ repository.Transactor = (*Store)(nil)
