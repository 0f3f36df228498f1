package courier

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for the stop lifecycle.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	// ErrStopInProgress is returned when starting a new stop while one is already active.
	ErrStopInProgress = errors.New("courier must finish the current stop before starting a new one")
	// ErrNoMoreWork is returned when starting a stop with an empty route queue.
	ErrNoMoreWork = errors.New("no more stops in the route")
	// ErrNoActiveStop is returned when updating a stop while none is active.
	ErrNoActiveStop = errors.New("courier has no active stop")
	// ErrAlreadyArrived is returned on a second arrival at the same stop.
	ErrAlreadyArrived = errors.New("already arrived at this stop")
	// ErrNotYetArrived is returned when completing a stop before arriving.
	ErrNotYetArrived = errors.New("cannot complete the stop before arriving")
)

// Courier is the aggregate root for a delivery driver. It owns the driver's
// availability (on-call flag plus shift windows), last known location, and the
// stop queue the route planner maintains for them.
//
// Invariants:
//   - at most one stop is active (Next) at a time
//   - the route queue is never mutated while a stop transition is in flight;
//     callers serialize per courier id
//   - a failed stop empties the whole route; the courier is re-planned from scratch
type Courier struct {
	id        kernel.UUID
	name      string
	email     string
	phone     string
	onCall    bool
	unskilled bool
	location  kernel.GeoPoint
	shifts    []Shift
	stops     Stops
	guard     guard.ConstructorGuard
}

// NewCourier creates a courier with an empty stop queue.
func NewCourier(
	id kernel.UUID,
	name string,
	email string,
	phone string,
	location kernel.GeoPoint,
	shifts []Shift,
) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setLocation(location),
	); err != nil {
		return nil, err
	}

	c.email = email
	c.phone = phone
	c.shifts = append([]Shift(nil), shifts...)

	return c, nil
}

// RestoreCourier reconstructs a courier from persistence, including the stop queue.
func RestoreCourier(
	id kernel.UUID,
	name string,
	email string,
	phone string,
	onCall bool,
	unskilled bool,
	location kernel.GeoPoint,
	shifts []Shift,
	stops Stops,
) (*Courier, error) {
	c, err := NewCourier(id, name, email, phone, location, shifts)
	if err != nil {
		return nil, err
	}

	c.onCall = onCall
	c.unskilled = unskilled
	c.stops = stops

	return c, nil
}

// Validate checks the courier was built through a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the courier identifier.
func (c *Courier) ID() kernel.UUID { return c.id }

// Name returns the courier's name.
func (c *Courier) Name() string { return c.name }

// Email returns the courier's contact email.
func (c *Courier) Email() string { return c.email }

// Phone returns the courier's contact phone.
func (c *Courier) Phone() string { return c.phone }

// OnCall reports whether the courier is currently accepting new work.
func (c *Courier) OnCall() bool { return c.onCall }

// SetOnCall flips the courier's availability for new work.
func (c *Courier) SetOnCall(onCall bool) { c.onCall = onCall }

// Unskilled reports whether the optimizer should penalty-weight this courier.
func (c *Courier) Unskilled() bool { return c.unskilled }

// SetUnskilled flags the courier for optimizer penalty weighting.
func (c *Courier) SetUnskilled(unskilled bool) { c.unskilled = unskilled }

// Location returns the courier's last known position.
func (c *Courier) Location() kernel.GeoPoint { return c.location }

// SetLocation updates the courier's last known position.
func (c *Courier) SetLocation(location kernel.GeoPoint) error {
	return c.setLocation(location)
}

// Shifts returns the courier's scheduled on-call windows.
func (c *Courier) Shifts() []Shift {
	return append([]Shift(nil), c.shifts...)
}

// Stops exposes the courier's stop queue. The pointer is owned by the
// aggregate; callers must serialize access per courier id.
func (c *Courier) Stops() *Stops {
	return &c.stops
}

// OnShift reports whether t falls within any of the courier's shifts.
func (c *Courier) OnShift(t time.Time) bool {
	for _, s := range c.shifts {
		if s.Contains(t) {
			return true
		}
	}
	return false
}

// IsDispatchable reports whether the courier belongs in the optimization fleet
// at time t: on call within a shift, or still holding an active stop that must
// be finished regardless of shift.
func (c *Courier) IsDispatchable(t time.Time) bool {
	return (c.onCall && c.OnShift(t)) || c.stops.Next != nil
}

// Info returns the snapshot of this courier recorded on orders and events.
func (c *Courier) Info() order.CourierInfo {
	return order.CourierInfo{
		ID:    c.id,
		Name:  c.name,
		Email: c.email,
		Phone: c.phone,
	}
}

// BeginNextStop pops the head of the route into the active slot.
// Fails with ErrStopInProgress if a stop is already active and ErrNoMoreWork
// if the queue is empty. Resets the alert counter and re-anchors the planned
// start time on the new stop's estimated finish.
func (c *Courier) BeginNextStop() (*Stop, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.stops.Next != nil {
		return nil, ErrStopInProgress
	}
	if len(c.stops.Route) == 0 {
		return nil, ErrNoMoreWork
	}

	next := c.stops.Route[0]
	c.stops.Route = c.stops.Route[1:]
	c.stops.Next = &next
	c.stops.Alert = 0
	startAt := next.FinishAt
	c.stops.StartAt = &startAt

	return c.stops.Next, nil
}

// ArriveAtStop records the actual arrival time at the active stop and returns
// the signed deviation from the estimate in whole minutes.
func (c *Courier) ArriveAtStop(at time.Time) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	next := c.stops.Next
	if next == nil {
		return 0, ErrNoActiveStop
	}
	if next.ArrivedAt != nil {
		return 0, ErrAlreadyArrived
	}

	next.ArrivedAt = &at
	return minutesBetween(next.ArriveAt, at), nil
}

// CompleteStop records the actual finish time, clears the active slot, and
// returns the completed stop plus the signed deviation from its estimated
// finish in whole minutes. Completing before arrival fails with ErrNotYetArrived.
func (c *Courier) CompleteStop(at time.Time) (Stop, int, error) {
	if err := c.Validate(); err != nil {
		return Stop{}, 0, err
	}
	next := c.stops.Next
	if next == nil {
		return Stop{}, 0, ErrNoActiveStop
	}
	if next.ArrivedAt == nil {
		return Stop{}, 0, ErrNotYetArrived
	}

	next.FinishedAt = &at
	done := *next
	c.stops.Next = nil
	return done, minutesBetween(done.FinishAt, at), nil
}

// FailStop abandons the active stop and empties the rest of the route: a
// failure invalidates the planned sequence, so the courier is re-planned from
// scratch. Returns the failed stop and the signed deviation from its estimated
// finish in whole minutes.
func (c *Courier) FailStop(at time.Time) (Stop, int, error) {
	if err := c.Validate(); err != nil {
		return Stop{}, 0, err
	}
	next := c.stops.Next
	if next == nil {
		return Stop{}, 0, ErrNoActiveStop
	}

	failed := *next
	diff := minutesBetween(failed.FinishAt, at)
	c.stops.Next = nil
	c.stops.Route = nil
	c.stops.Alert = 0
	return failed, diff, nil
}

// ReplaceRoute installs a freshly optimized route. The active stop, if any,
// is left untouched; only the pending queue and its planned start move.
func (c *Courier) ReplaceRoute(startAt time.Time, route []Stop, polyline string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.stops.StartAt = &startAt
	c.stops.Route = route
	c.stops.Polyline = polyline
	return nil
}

// HasIdleRoute reports whether the courier has queued stops but nothing active.
func (c *Courier) HasIdleRoute() bool {
	return c.stops.Next == nil && len(c.stops.Route) > 0
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

// minutesBetween returns the signed whole-minute difference to - from,
// truncated toward zero.
func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from).Minutes())
}
