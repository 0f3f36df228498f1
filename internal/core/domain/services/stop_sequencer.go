package services

import (
	"sort"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
)

const pickupServiceMinutes = 2

// ResequencePickups reorders a leading run of pickups at the same restaurant
// so the courier collects orders in the kitchen's cooking order. The solver
// sequences such stops arbitrarily since they share a location; the kitchen
// finishes them oldest-first. Only the contiguous run at the head of the route
// that shares the first stop's restaurant is touched, and its arrival and
// finish times are rebuilt so each pickup waits for the food to be ready.
func ResequencePickups(route []courier.Stop) []courier.Stop {
	if len(route) < 2 {
		return route
	}

	first := route[0]
	if first.Leg != order.LegPickup {
		return route
	}

	run := 1
	for run < len(route) &&
		route[run].Leg == order.LegPickup &&
		route[run].Order.RestaurantID == first.Order.RestaurantID {
		run++
	}
	if run < 2 {
		return route
	}

	head := make([]courier.Stop, run)
	copy(head, route[:run])
	sort.SliceStable(head, func(i, j int) bool {
		return head[i].Order.CreatedAt.Before(head[j].Order.CreatedAt)
	})

	// Each pickup starts its service window where the previous one finished;
	// the kitchen clamp can still push it later.
	prev := first.ArriveAt
	for i := range head {
		ready := head[i].Order.CreatedAt.Add(time.Duration(head[i].Order.Prepare()) * time.Minute)
		finish := prev.Add(pickupServiceMinutes * time.Minute)
		if ready.After(finish) {
			finish = ready
		}
		head[i].FinishAt = finish
		head[i].ArriveAt = finish.Add(-pickupServiceMinutes * time.Minute)
		prev = head[i].FinishAt
	}

	out := make([]courier.Stop, 0, len(route))
	out = append(out, head...)
	out = append(out, route[run:]...)
	return out
}
