package services

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/vrp"
)

var (
	// ErrNoDeliveriesToPlan is returned when no open order needs planning.
	// Callers treat this as a benign skip, not a failure.
	ErrNoDeliveriesToPlan = errors.New("no more deliveries to plan")

	// ErrOrphanedInProgressStop is returned when an order's delivery is
	// mid-leg but no courier is recorded on it. The state is unplannable.
	ErrOrphanedInProgressStop = errors.New("in-progress order has no courier")
)

const (
	// maxUnassignedBacklog caps how many not-yet-assigned visits one
	// optimization run will take on; orders beyond it wait for the next run.
	// Already-assigned orders are never deferred.
	maxUnassignedBacklog = 80

	pickupDurationMinutes          = 4
	dropoffDurationMinutes         = 2
	collapsedPickupDurationMinutes = 1

	// baseEstimateMinutes is the promised delivery time for a regular order.
	baseEstimateMinutes = 45
	// firstOrderBonusMinutes tightens the promise for a customer's first order.
	firstOrderBonusMinutes = 5
	// feasibilityPadMinutes is the minimum gap between food-ready and dropoff
	// deadline the solver needs: pickup service, dropoff service, and transit.
	feasibilityPadMinutes = 15
)

// BuildVisits converts the open orders at time t into an optimizer visit snapshot.
//
// The pickup window opens at creation plus the restaurant's prepare time; the
// dropoff window closes at creation plus the promised estimate, floored so the
// solver always has a feasible gap. Orders with an assigned courier are pinned
// to that courier. An order whose pickup leg is already underway keeps its
// visit as a waypoint: the pickup is collapsed onto the dropoff location and
// marked ignorable so the solver cannot re-plan a started leg. An order whose
// dropoff leg is underway has nothing left to plan and is excluded.
func BuildVisits(orders []*order.Order, t time.Time) (vrp.Visits, error) {
	visits := vrp.Visits{}

	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if !o.IsOpenForPlanning() {
			continue
		}

		prepare := o.PrepareMinutes()
		restaurant := o.Restaurant()

		pickup := vrp.Window{
			Location: vrp.Location{
				Name: fmt.Sprintf("PICKUP#%s", o.Passcode()),
				Lat:  restaurant.Address.Location.Lat(),
				Lng:  restaurant.Address.Location.Lng(),
			},
			Start:    o.CreatedAt().Add(time.Duration(prepare) * time.Minute).Unix(),
			Duration: pickupDurationMinutes,
		}

		est := baseEstimateMinutes
		if o.Customer().OrderCount == 0 {
			est -= firstOrderBonusMinutes
		}
		// The solver rejects windows it cannot possibly satisfy.
		if floor := prepare + feasibilityPadMinutes; est < floor {
			est = floor
		}

		dropoff := vrp.Window{
			Location: vrp.Location{
				Name: fmt.Sprintf("DROPOFF#%s", o.Passcode()),
				Lat:  o.DeliveryAddress().Location.Lat(),
				Lng:  o.DeliveryAddress().Location.Lng(),
			},
			End:      o.CreatedAt().Add(time.Duration(est) * time.Minute).Unix(),
			Duration: dropoffDurationMinutes,
		}

		eligibility := vrp.TypeAll
		if c := o.Courier(); c != nil {
			eligibility = c.ID.String()
		}

		if leg, inProgress := o.DeliveryStatus().Leg(); inProgress {
			if eligibility == vrp.TypeAll {
				return nil, fmt.Errorf("order #%s is %s: %w",
					o.Passcode(), o.DeliveryStatus(), ErrOrphanedInProgressStop)
			}

			if leg == order.LegDropoff {
				continue
			}

			// Started pickup: keep the visit as a waypoint at the dropoff
			// location but stop the solver from re-planning the leg.
			pickup.Location = vrp.Location{
				Name: vrp.IgnoreLocationName,
				Lat:  dropoff.Location.Lat,
				Lng:  dropoff.Location.Lng,
			}
			pickup.Duration = collapsedPickupDurationMinutes
			pickup.Start = 0
		}

		if o.Courier() != nil || len(visits) <= maxUnassignedBacklog {
			visits[o.ID().String()] = vrp.Visit{
				Load:    1,
				Pickup:  pickup,
				Dropoff: dropoff,
				Type:    eligibility,
			}
		}
	}

	if len(visits) == 0 {
		return nil, ErrNoDeliveriesToPlan
	}
	return visits, nil
}
