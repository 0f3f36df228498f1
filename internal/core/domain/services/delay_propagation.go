package services

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
)

// PropagateDelay pushes a delay, in minutes, through a courier's remaining
// stops. The active stop is adjusted first; the observed delay is then
// re-anchored on its actual finish so downstream stops only absorb what the
// courier truly lost, and rippled through the queued route in order. Pickup
// stops can amplify or dampen the delay because the food-ready clamp reapplies
// at each one, so even a zero input delay can move a pickup that would
// otherwise finish before its food is ready. Finished stops are immutable.
func PropagateDelay(stops *courier.Stops, delayMinutes int) {
	if stops == nil {
		return
	}

	if stops.Next != nil {
		delayMinutes = adjustStop(stops.Next, delayMinutes)

		anchor := stops.Next.FinishAt
		if stops.Next.FinishedAt != nil {
			anchor = *stops.Next.FinishedAt
		}
		if stops.StartAt != nil {
			delayMinutes = minutesBetween(*stops.StartAt, anchor)
		}
		stops.StartAt = &anchor
	}

	for i := range stops.Route {
		delayMinutes = adjustStop(&stops.Route[i], delayMinutes)
	}
}

// adjustStop applies a delay to one stop and returns the delay its successor
// inherits.
func adjustStop(s *courier.Stop, delayMinutes int) int {
	if s.IsFinished() {
		return delayMinutes
	}

	if s.ArrivedAt == nil {
		s.ArriveAt = s.ArriveAt.Add(time.Duration(delayMinutes) * time.Minute)
	}

	if s.Leg == order.LegDropoff {
		s.FinishAt = s.FinishAt.Add(time.Duration(delayMinutes) * time.Minute)
		return delayMinutes
	}

	// Pickup: the courier leaves when the food is ready or after the service
	// time, whichever is later. The clamp can swallow part of the delay or,
	// when the kitchen is the bottleneck, introduce more.
	arrive := s.ArriveAt
	if s.ArrivedAt != nil {
		arrive = *s.ArrivedAt
	}
	ready := s.Order.CreatedAt.Add(time.Duration(s.Order.Prepare()) * time.Minute)
	finish := arrive.Add(pickupServiceMinutes * time.Minute)
	if ready.After(finish) {
		finish = ready
	}

	inherited := minutesBetween(s.FinishAt, finish)
	s.FinishAt = finish
	return inherited
}

func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from).Minutes())
}
