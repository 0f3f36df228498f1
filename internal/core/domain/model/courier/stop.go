package courier

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRef is the denormalized order snippet carried on each stop so that
// drivers and downstream consumers do not need an extra order lookup.
type OrderRef struct {
	ID             kernel.UUID
	Passcode       string
	CreatedAt      time.Time
	Region         string
	RestaurantID   kernel.UUID
	RestaurantName string
	PrepareMinutes int
	Items          []string
}

// Prepare returns the referenced restaurant's prepare minutes, defaulted when unset.
func (r OrderRef) Prepare() int {
	if r.PrepareMinutes <= 0 {
		return order.DefaultPrepareMinutes
	}
	return r.PrepareMinutes
}

// Stop is one pickup or dropoff leg assigned to a courier. Stops are created
// from an optimizer solution, advanced by the stop lifecycle, shifted by delay
// propagation, and popped from the queue once completed or failed.
type Stop struct {
	Leg   order.Leg
	Order OrderRef

	Address order.Address
	Phone   string

	// ArriveAt and FinishAt are the optimizer's estimates; ArrivedAt and
	// FinishedAt are actuals, unset until the courier reaches the stop.
	ArriveAt   time.Time
	FinishAt   time.Time
	ArrivedAt  *time.Time
	FinishedAt *time.Time

	// EstimateAt is the customer-facing promise for this leg.
	EstimateAt time.Time

	DistanceMiles float64
}

// IsFinished reports whether the stop already has an actual finish time.
func (s Stop) IsFinished() bool {
	return s.FinishedAt != nil
}

// Stops is a courier's work queue: the stop currently being executed, the
// ordered route of pending stops, and the planned start time the whole route
// was computed against.
type Stops struct {
	Next     *Stop
	Route    []Stop
	StartAt  *time.Time
	Polyline string
	Alert    int
}
