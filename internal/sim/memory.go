package sim

import (
	"context"
	"sort"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// MemoryStore backs a replay run with plain in-memory state. It implements
// every outbound port the command handlers need: both repositories, the event
// trail, and the run stamp store. The dispatch loop is single-threaded, so
// transactions degrade to no-ops and aggregates are shared directly.
type MemoryStore struct {
	couriers map[string]*courier.Courier
	orders   map[string]*order.Order
	events   []ports.Event
	stamps   map[string]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		couriers: make(map[string]*courier.Courier),
		orders:   make(map[string]*order.Order),
		stamps:   make(map[string]int64),
	}
}

// Events returns the audit trail recorded so far, in append order.
func (s *MemoryStore) Events() []ports.Event {
	return append([]ports.Event(nil), s.events...)
}

// AddCourier seeds a courier into the store. Fixture setup only.
func (s *MemoryStore) AddCourier(c *courier.Courier) {
	s.couriers[c.ID().String()] = c
}

// Add stores a new courier aggregate.
func (s *MemoryStore) Add(_ context.Context, c *courier.Courier) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.couriers[c.ID().String()] = c
	return nil
}

// Update stores courier changes. Aggregates are shared, so this only checks
// the courier is known.
func (s *MemoryStore) Update(_ context.Context, c *courier.Courier) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, ok := s.couriers[c.ID().String()]; !ok {
		return errs.NewObjectNotFoundError("courier", c.ID().String())
	}
	s.couriers[c.ID().String()] = c
	return nil
}

// Get retrieves a courier by id.
func (s *MemoryStore) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	c, ok := s.couriers[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courier", id.String())
	}
	return c, nil
}

// GetAll returns every courier ordered by name, matching the persistent
// repository's ordering so candidate derivation is deterministic.
func (s *MemoryStore) GetAll(_ context.Context) ([]*courier.Courier, error) {
	couriers := make([]*courier.Courier, 0, len(s.couriers))
	for _, c := range s.couriers {
		couriers = append(couriers, c)
	}
	sort.Slice(couriers, func(i, j int) bool {
		if couriers[i].Name() != couriers[j].Name() {
			return couriers[i].Name() < couriers[j].Name()
		}
		return couriers[i].ID().String() < couriers[j].ID().String()
	})
	return couriers, nil
}

// orderStore adapts the same MemoryStore to ports.OrderRepository. The method
// sets of the two repositories collide, so orders get their own receiver.
type orderStore struct {
	s *MemoryStore
}

func (r orderStore) Add(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	r.s.orders[o.ID().String()] = o
	return nil
}

func (r orderStore) Update(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if _, ok := r.s.orders[o.ID().String()]; !ok {
		return errs.NewObjectNotFoundError("order", o.ID().String())
	}
	r.s.orders[o.ID().String()] = o
	return nil
}

func (r orderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := r.s.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

func (r orderStore) GetAllOpen(_ context.Context) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		if o.IsOpenForPlanning() {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].CreatedAt().Before(orders[j].CreatedAt())
		}
		return orders[i].ID().String() < orders[j].ID().String()
	})
	return orders, nil
}

// eventStore adapts the MemoryStore to ports.EventRepository.
type eventStore struct {
	s *MemoryStore
}

func (r eventStore) Add(_ context.Context, event ports.Event) error {
	r.s.events = append(r.s.events, event)
	return nil
}

// Current returns the region's run stamp.
func (s *MemoryStore) Current(_ context.Context, region string) (int64, error) {
	return s.stamps[region], nil
}

// Touch bumps the region's run stamp. A counter rather than a clock: replay
// time is simulated, so monotonicity is all that matters.
func (s *MemoryStore) Touch(_ context.Context, region string) (int64, error) {
	s.stamps[region]++
	return s.stamps[region], nil
}

// memoryUoW is a no-op transaction over the shared store.
type memoryUoW struct {
	s *MemoryStore
}

func (u memoryUoW) Begin(_ context.Context) error    { return nil }
func (u memoryUoW) Commit(_ context.Context) error   { return nil }
func (u memoryUoW) Rollback(_ context.Context) error { return nil }

func (u memoryUoW) CourierRepository() ports.CourierRepository { return u.s }
func (u memoryUoW) OrderRepository() ports.OrderRepository     { return orderStore{u.s} }
func (u memoryUoW) EventRepository() ports.EventRepository     { return eventStore{u.s} }

type orderUoWFactory struct{ s *MemoryStore }

func (f orderUoWFactory) Create() commands.OrderUoW { return memoryUoW{f.s} }

type planUoWFactory struct{ s *MemoryStore }

func (f planUoWFactory) Create() commands.PlanUoW { return memoryUoW{f.s} }

type stopUoWFactory struct{ s *MemoryStore }

func (f stopUoWFactory) Create() commands.StopUoW { return memoryUoW{f.s} }

// OrderUoWs returns a unit-of-work factory for order ingestion.
func (s *MemoryStore) OrderUoWs() commands.OrderUoWFactory { return orderUoWFactory{s} }

// PlanUoWs returns a unit-of-work factory for route planning.
func (s *MemoryStore) PlanUoWs() commands.PlanUoWFactory { return planUoWFactory{s} }

// StopUoWs returns a unit-of-work factory for stop transitions.
func (s *MemoryStore) StopUoWs() commands.StopUoWFactory { return stopUoWFactory{s} }
