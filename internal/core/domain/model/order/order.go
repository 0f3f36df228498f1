package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// DefaultPrepareMinutes is assumed when a restaurant has no prepare-time estimate.
	DefaultPrepareMinutes = 15

	// DefaultEstimateMinMinutes and DefaultEstimateMaxMinutes bound a fresh
	// order's promised delivery window, in minutes after creation.
	DefaultEstimateMinMinutes = 30
	DefaultEstimateMaxMinutes = 45
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrDeliveryIsTerminal is returned when mutating a delivery that already
	// reached completed or failed.
	ErrDeliveryIsTerminal = errors.New("delivery is already in a terminal state")
)

// Address is a denormalized destination: display text plus coordinates.
type Address struct {
	Text     string
	Location kernel.GeoPoint
}

// EstimateWindow is a promised min/max window in minutes after order creation.
type EstimateWindow struct {
	Min int
	Max int
}

// Shift adds delta minutes to both bounds.
func (w EstimateWindow) Shift(delta int) EstimateWindow {
	return EstimateWindow{Min: w.Min + delta, Max: w.Max + delta}
}

// Restaurant is the order's denormalized restaurant snapshot.
type Restaurant struct {
	ID             kernel.UUID
	Name           string
	Phone          string
	Address        Address
	PrepareMinutes int
	Estimate       EstimateWindow
}

// Customer is the order's denormalized customer snapshot.
// OrderCount is the number of orders placed before this one.
type Customer struct {
	ID         kernel.UUID
	Phone      string
	OrderCount int
}

// CourierInfo is the snapshot of the courier recorded on an order once one is assigned.
type CourierInfo struct {
	ID    kernel.UUID
	Name  string
	Email string
	Phone string
}

// Status represents the commercial state of an order, independent of delivery progress.
type Status int

const (
	// StatusPending is an order awaiting restaurant confirmation.
	StatusPending Status = iota
	// StatusConfirmed is an order accepted by the restaurant; only confirmed
	// orders enter delivery planning.
	StatusConfirmed
	// StatusCanceled is an order withdrawn before delivery.
	StatusCanceled
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusCanceled:
		return "canceled"
	}
	return "unknown"
}

// StatusFromString parses a wire status name.
func StatusFromString(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "confirmed":
		return StatusConfirmed, nil
	case "canceled":
		return StatusCanceled, nil
	}
	return StatusPending, errs.NewValueIsInvalidError("status")
}

// Order is the aggregate root for a delivery order. It owns the delivery
// sub-state: status machine, assigned courier snapshot, promised estimate
// window, and actual/estimated completion times.
//
// Invariants:
//   - delivery status transitions only along the DeliveryStatus machine
//   - at most one courier is recorded at a time
//   - terminal deliveries reject further mutation (except requeueing a failure)
type Order struct {
	id         kernel.UUID
	passcode   string
	status     Status
	restaurant Restaurant
	customer   Customer
	region     string
	items      []string
	createdAt  time.Time

	deliveryStatus   DeliveryStatus
	deliveryAddress  Address
	courier          *CourierInfo
	deliveredAt      *time.Time
	deliveryFinishAt *time.Time
	deliveryEstimate EstimateWindow

	isConstructed bool
}

// NewOrder creates a confirmed order with a fresh, unplanned delivery state.
// Zero prepare minutes fall back to DefaultPrepareMinutes; a zero estimate
// window falls back to the default 30-45 minute promise.
func NewOrder(
	id kernel.UUID,
	passcode string,
	restaurant Restaurant,
	customer Customer,
	deliveryAddress Address,
	region string,
	items []string,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        StatusConfirmed,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setPasscode(passcode),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	if restaurant.PrepareMinutes == 0 {
		restaurant.PrepareMinutes = DefaultPrepareMinutes
	}

	o.restaurant = restaurant
	o.customer = customer
	o.deliveryAddress = deliveryAddress
	o.region = region
	o.items = append([]string(nil), items...)
	o.deliveryEstimate = EstimateWindow{Min: DefaultEstimateMinMinutes, Max: DefaultEstimateMaxMinutes}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence, including delivery progress.
func RestoreOrder(
	id kernel.UUID,
	passcode string,
	status Status,
	restaurant Restaurant,
	customer Customer,
	deliveryAddress Address,
	region string,
	items []string,
	createdAt time.Time,
	deliveryStatus DeliveryStatus,
	courier *CourierInfo,
	deliveredAt *time.Time,
	deliveryFinishAt *time.Time,
	deliveryEstimate EstimateWindow,
) (*Order, error) {
	o, err := NewOrder(id, passcode, restaurant, customer, deliveryAddress, region, items, createdAt)
	if err != nil {
		return nil, err
	}

	o.status = status
	o.deliveryStatus = deliveryStatus
	o.courier = courier
	o.deliveredAt = deliveredAt
	o.deliveryFinishAt = deliveryFinishAt
	if deliveryEstimate != (EstimateWindow{}) {
		o.deliveryEstimate = deliveryEstimate
	}

	return o, nil
}

// Validate checks the order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Passcode returns the short human-facing order code.
func (o *Order) Passcode() string { return o.passcode }

// Status returns the commercial order status.
func (o *Order) Status() Status { return o.status }

// Restaurant returns the restaurant snapshot.
func (o *Order) Restaurant() Restaurant { return o.restaurant }

// Customer returns the customer snapshot.
func (o *Order) Customer() Customer { return o.customer }

// Region returns the operating region code.
func (o *Order) Region() string { return o.region }

// Items returns the ordered item names.
func (o *Order) Items() []string { return append([]string(nil), o.items...) }

// CreatedAt returns the order creation time.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// DeliveryStatus returns the current delivery lifecycle state.
func (o *Order) DeliveryStatus() DeliveryStatus { return o.deliveryStatus }

// DeliveryAddress returns the dropoff destination.
func (o *Order) DeliveryAddress() Address { return o.deliveryAddress }

// Courier returns the assigned courier snapshot, or nil when unassigned.
func (o *Order) Courier() *CourierInfo { return o.courier }

// DeliveredAt returns the actual completion time, or nil while undelivered.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// DeliveryFinishAt returns the estimated completion time, or nil before scheduling.
func (o *Order) DeliveryFinishAt() *time.Time { return o.deliveryFinishAt }

// DeliveryEstimate returns the promised delivery window.
func (o *Order) DeliveryEstimate() EstimateWindow { return o.deliveryEstimate }

// PrepareMinutes returns the restaurant prepare estimate, defaulted when unset.
func (o *Order) PrepareMinutes() int {
	if o.restaurant.PrepareMinutes <= 0 {
		return DefaultPrepareMinutes
	}
	return o.restaurant.PrepareMinutes
}

// IsOpenForPlanning reports whether the visit builder should consider this order:
// confirmed, not yet delivered, and not in a terminal delivery state.
func (o *Order) IsOpenForPlanning() bool {
	return o.status == StatusConfirmed &&
		o.deliveredAt == nil &&
		!o.deliveryStatus.IsTerminal()
}

// ResetDelivery returns the order to a fresh unassigned state. Used when a
// historical order is replayed into the simulation.
func (o *Order) ResetDelivery() {
	o.deliveryStatus = DeliveryUnset
	o.courier = nil
	o.deliveredAt = nil
	o.deliveryFinishAt = nil
}

// Schedule records the optimizer's estimated completion time and advances a
// still-plannable delivery to scheduled. In-progress legs keep their status;
// terminal deliveries reject the update.
func (o *Order) Schedule(finishAt time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.deliveryStatus.IsTerminal() {
		return ErrDeliveryIsTerminal
	}

	o.deliveryFinishAt = &finishAt
	if o.deliveryStatus.IsPlannable() {
		o.deliveryStatus = DeliveryScheduled
	}
	return nil
}

// MarkEnRoute assigns the courier and moves the delivery to en-route-to-{leg}.
func (o *Order) MarkEnRoute(leg Leg, courier CourierInfo) error {
	if err := errors.Join(o.Validate(), leg.Validate()); err != nil {
		return err
	}
	if o.deliveryStatus.IsTerminal() {
		return ErrDeliveryIsTerminal
	}

	o.courier = &courier
	o.deliveryStatus = EnRouteStatus(leg)
	return nil
}

// MarkArrived moves the delivery to at-{leg}.
func (o *Order) MarkArrived(leg Leg) error {
	if err := errors.Join(o.Validate(), leg.Validate()); err != nil {
		return err
	}
	if o.deliveryStatus.IsTerminal() {
		return ErrDeliveryIsTerminal
	}

	o.deliveryStatus = ArrivedStatus(leg)
	return nil
}

// MarkLegCompleted finishes the current leg: pickup-completed for the pickup
// leg, completed (with the actual delivery time) for the dropoff leg.
func (o *Order) MarkLegCompleted(leg Leg, at time.Time) error {
	if err := errors.Join(o.Validate(), leg.Validate()); err != nil {
		return err
	}
	if o.deliveryStatus.IsTerminal() {
		return ErrDeliveryIsTerminal
	}

	o.deliveryStatus = CompletedStatus(leg)
	if leg == LegDropoff {
		o.deliveredAt = &at
	}
	return nil
}

// MarkFailed records a delivery failure and releases the courier.
func (o *Order) MarkFailed() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.deliveryStatus.IsTerminal() {
		return ErrDeliveryIsTerminal
	}

	o.deliveryStatus = DeliveryFailed
	o.courier = nil
	return nil
}

// Requeue returns a failed-at-pickup order to the plannable pool after the
// restaurant reported the food was not ready. The restaurant's prepare time is
// replaced and both the restaurant and delivery estimate windows are shifted
// by the prepare-time delta so the next optimization run plans around the delay.
func (o *Order) Requeue(newPrepareMinutes, estimateDelta int) error {
	if err := o.Validate(); err != nil {
		return err
	}

	o.restaurant.PrepareMinutes = newPrepareMinutes
	o.restaurant.Estimate = o.restaurant.Estimate.Shift(estimateDelta)
	o.deliveryEstimate = o.deliveryEstimate.Shift(estimateDelta)
	o.deliveryStatus = DeliveryProcessing
	o.courier = nil
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setPasscode(passcode string) error {
	if passcode == "" {
		return errs.NewValueIsRequiredError("passcode")
	}
	o.passcode = passcode
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}
