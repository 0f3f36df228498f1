package services

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/vrp"
)

// ErrNoCouriersAvailable is returned when no courier is dispatchable at the
// requested time: nobody is on shift and nobody has an active stop to finish.
var ErrNoCouriersAvailable = errors.New("no couriers available at this time")

const (
	// lateNotArrivedMinutes pads a courier's start when the current time has
	// already passed the active stop's estimated finish and the courier has
	// not arrived yet.
	lateNotArrivedMinutes = 5
	// lateArrivedMinutes is the smaller pad once the courier is on site.
	lateArrivedMinutes = 2
)

// BuildFleet converts the dispatchable couriers at time t into an optimizer
// fleet snapshot.
//
// A courier is included when on call within a shift, or when holding an active
// stop (the current work must be finished regardless of shift). The start
// location and time come from the active stop when one exists, otherwise from
// the last known location at t. Eligibility always contains the courier's own
// id; "all" is added only for on-call couriers so off-call drivers can finish
// their assigned stop without receiving new work.
func BuildFleet(couriers []*courier.Courier, t time.Time) (vrp.Fleet, error) {
	fleet := vrp.Fleet{}

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsDispatchable(t) {
			continue
		}

		start := t
		location := c.Location()

		if next := c.Stops().Next; next != nil {
			location = next.Address.Location
			start = next.FinishAt

			// Already running late: push the start past now by a small pad,
			// smaller when the courier has at least arrived.
			pad := lateNotArrivedMinutes
			if next.ArrivedAt != nil {
				pad = lateArrivedMinutes
			}
			if late := t.Add(time.Duration(pad) * time.Minute); late.After(start) {
				start = late
			}
		}

		eligibility := []string{c.ID().String()}
		if c.OnCall() && c.OnShift(t) {
			eligibility = append(eligibility, vrp.TypeAll)
		}

		fleet[c.ID().String()] = vrp.FleetEntry{
			Type: eligibility,
			StartLocation: vrp.Location{
				Name: c.Email(),
				Lat:  location.Lat(),
				Lng:  location.Lng(),
			},
			ShiftStart: start.Unix(),
			Unskilled:  c.Unskilled(),
		}
	}

	if len(fleet) == 0 {
		return nil, ErrNoCouriersAvailable
	}
	return fleet, nil
}
