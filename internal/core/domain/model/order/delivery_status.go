package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Leg identifies which half of a delivery a stop belongs to.
type Leg string

const (
	// LegPickup is the restaurant side of a delivery.
	LegPickup Leg = "pickup"
	// LegDropoff is the customer side of a delivery.
	LegDropoff Leg = "dropoff"
)

// Validate checks that the leg is one of the two known values.
func (l Leg) Validate() error {
	if l != LegPickup && l != LegDropoff {
		return errs.NewValueIsInvalidErrorWithCause("leg",
			fmt.Errorf("%q is not a valid stop leg", string(l)))
	}
	return nil
}

// DeliveryStatus represents the lifecycle state of an order's delivery.
// It implements a state machine with defined transitions:
//
//	(unset) ──> processing ──> scheduled ──> en-route-to-pickup ──> at-pickup
//	    ──> pickup-completed ──> en-route-to-dropoff ──> at-dropoff ──> completed
//
// with a side transition to failed from any non-terminal state, and a re-entry
// from failed back to processing when a failure returns the order to the
// plannable pool (food-not-ready).
type DeliveryStatus int

const (
	// DeliveryUnset means no delivery planning has touched the order yet.
	DeliveryUnset DeliveryStatus = iota

	// DeliveryProcessing marks an order waiting to be planned into a route.
	DeliveryProcessing

	// DeliveryScheduled marks an order placed into a courier's planned route.
	DeliveryScheduled

	// DeliveryEnRouteToPickup marks a courier travelling to the restaurant.
	DeliveryEnRouteToPickup

	// DeliveryAtPickup marks a courier arrived at the restaurant.
	DeliveryAtPickup

	// DeliveryPickupCompleted marks the food as collected.
	DeliveryPickupCompleted

	// DeliveryEnRouteToDropoff marks a courier travelling to the customer.
	DeliveryEnRouteToDropoff

	// DeliveryAtDropoff marks a courier arrived at the customer.
	DeliveryAtDropoff

	// DeliveryCompleted is the terminal success state.
	DeliveryCompleted

	// DeliveryFailed is the terminal failure state.
	DeliveryFailed
)

func deliveryStatusStrings() map[DeliveryStatus]string {
	return map[DeliveryStatus]string{
		DeliveryUnset:            "",
		DeliveryProcessing:       "processing",
		DeliveryScheduled:        "scheduled",
		DeliveryEnRouteToPickup:  "en-route-to-pickup",
		DeliveryAtPickup:         "at-pickup",
		DeliveryPickupCompleted:  "pickup-completed",
		DeliveryEnRouteToDropoff: "en-route-to-dropoff",
		DeliveryAtDropoff:        "at-dropoff",
		DeliveryCompleted:        "completed",
		DeliveryFailed:           "failed",
	}
}

// String returns the persisted kebab-case form of the status.
// The unset status renders as an empty string.
func (s DeliveryStatus) String() string {
	if str, ok := deliveryStatusStrings()[s]; ok {
		return str
	}
	return ""
}

// DeliveryStatusFromString parses the persisted form back into a DeliveryStatus.
func DeliveryStatusFromString(s string) (DeliveryStatus, error) {
	for status, str := range deliveryStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return DeliveryUnset, errs.NewValueIsInvalidErrorWithCause("delivery status",
		fmt.Errorf("%q is not a valid delivery status", s))
}

// IsTerminal reports whether the status ends the delivery lifecycle.
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryCompleted || s == DeliveryFailed
}

// Leg classifies an in-progress status into the delivery leg it belongs to.
// This replaces substring matching on raw status strings: statuses through
// pickup completion are the pickup leg, the two dropoff statuses are the
// dropoff leg, and everything else reports false.
func (s DeliveryStatus) Leg() (Leg, bool) {
	switch s {
	case DeliveryEnRouteToPickup, DeliveryAtPickup, DeliveryPickupCompleted:
		return LegPickup, true
	case DeliveryEnRouteToDropoff, DeliveryAtDropoff:
		return LegDropoff, true
	default:
		return "", false
	}
}

// IsPlannable reports whether the optimizer may still place or re-place this order.
// Scheduled and unset/processing orders are plannable; in-progress legs are pinned
// or excluded by the visit builder, and terminal states are out of the pool.
func (s DeliveryStatus) IsPlannable() bool {
	switch s {
	case DeliveryUnset, DeliveryProcessing, DeliveryScheduled:
		return true
	default:
		return false
	}
}

// EnRouteStatus returns the en-route status for a leg.
func EnRouteStatus(leg Leg) DeliveryStatus {
	if leg == LegDropoff {
		return DeliveryEnRouteToDropoff
	}
	return DeliveryEnRouteToPickup
}

// ArrivedStatus returns the at-stop status for a leg.
func ArrivedStatus(leg Leg) DeliveryStatus {
	if leg == LegDropoff {
		return DeliveryAtDropoff
	}
	return DeliveryAtPickup
}

// CompletedStatus returns the status reached when a leg's stop is completed:
// pickup completion keeps the delivery going, dropoff completion ends it.
func CompletedStatus(leg Leg) DeliveryStatus {
	if leg == LegDropoff {
		return DeliveryCompleted
	}
	return DeliveryPickupCompleted
}
