package services

import (
	"math"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/vrp"
	"dispatch/internal/pkg/errs"
)

const (
	metersPerMile         = 1600
	pickupEstimateMinutes = 15
)

// AssembleRoute turns one courier's solved stop sequence into the ordered stop
// queue the courier will execute. The optimizer's first entry is the courier's
// own start position; its arrival time becomes the planned start the whole
// route is valid against. Collapsed waypoints for a pickup already underway
// are dropped. Each dropoff schedules its order with the solved finish time.
// The assembled stops carry everything a driver needs on the road so that no
// further order lookup is required, and same-restaurant pickups are reordered
// by original order time before the route is returned.
func AssembleRoute(
	solved []vrp.SolutionStop,
	orders map[string]*order.Order,
) (time.Time, []courier.Stop, error) {
	if len(solved) == 0 {
		return time.Time{}, nil, nil
	}

	startAt := time.Unix(solved[0].ArrivalTime, 0)
	route := make([]courier.Stop, 0, len(solved)-1)

	for _, s := range solved {
		if s.Type == "" || s.LocationName == vrp.IgnoreLocationName {
			continue
		}

		o, ok := orders[s.LocationID]
		if ok {
			ok = o.Validate() == nil
		}
		if !ok {
			return time.Time{}, nil, errs.NewObjectNotFoundError("order", s.LocationID)
		}

		leg := order.Leg(s.Type)
		if err := leg.Validate(); err != nil {
			return time.Time{}, nil, err
		}

		finishAt := time.Unix(s.FinishTime, 0)
		if leg == order.LegDropoff {
			if err := o.Schedule(finishAt); err != nil {
				return time.Time{}, nil, err
			}
		}

		restaurant := o.Restaurant()

		estimateMinutes := o.DeliveryEstimate().Max
		address := o.DeliveryAddress()
		phone := o.Customer().Phone
		if leg == order.LegPickup {
			estimateMinutes = pickupEstimateMinutes
			address = restaurant.Address
			phone = restaurant.Phone
		}

		route = append(route, courier.Stop{
			Leg: leg,
			Order: courier.OrderRef{
				ID:             o.ID(),
				Passcode:       o.Passcode(),
				CreatedAt:      o.CreatedAt(),
				Region:         o.Region(),
				RestaurantID:   restaurant.ID,
				RestaurantName: restaurant.Name,
				PrepareMinutes: restaurant.PrepareMinutes,
				Items:          o.Items(),
			},
			Address:       address,
			Phone:         phone,
			ArriveAt:      time.Unix(s.ArrivalTime, 0),
			FinishAt:      finishAt,
			EstimateAt:    o.CreatedAt().Add(time.Duration(estimateMinutes) * time.Minute),
			DistanceMiles: math.Round(s.Distance/metersPerMile*10) / 10,
		})
	}

	return startAt, ResequencePickups(route), nil
}
