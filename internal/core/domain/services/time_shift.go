package services

import (
	"time"

	"dispatch/internal/core/domain/model/vrp"
)

// ShiftProblem returns a copy of the problem with every absolute timestamp
// rebased so that the reference moment lands at now. The optimizer reasons in
// wall-clock seconds relative to its own start; feeding it historical
// timestamps unchanged would make every window look long past. Zero window
// values mean unconstrained and are left alone.
func ShiftProblem(p vrp.Problem, reference, now time.Time) vrp.Problem {
	offset := now.Unix() - reference.Unix()

	visits := make(vrp.Visits, len(p.Visits))
	for id, v := range p.Visits {
		v.Pickup = shiftWindow(v.Pickup, offset)
		v.Dropoff = shiftWindow(v.Dropoff, offset)
		visits[id] = v
	}

	fleet := make(vrp.Fleet, len(p.Fleet))
	for id, f := range p.Fleet {
		if f.ShiftStart != 0 {
			f.ShiftStart += offset
		}
		fleet[id] = f
	}

	return vrp.Problem{Visits: visits, Fleet: fleet, Options: p.Options}
}

// UnshiftSolution rebases solver timestamps back onto the reference timeline,
// undoing what ShiftProblem applied to the problem.
func UnshiftSolution(s vrp.Solution, reference, now time.Time) vrp.Solution {
	offset := now.Unix() - reference.Unix()

	out := make(vrp.Solution, len(s))
	for courierID, stops := range s {
		rebase := make([]vrp.SolutionStop, len(stops))
		for i, stop := range stops {
			stop.ArrivalTime -= offset
			stop.FinishTime -= offset
			rebase[i] = stop
		}
		out[courierID] = rebase
	}
	return out
}

func shiftWindow(w vrp.Window, offset int64) vrp.Window {
	if w.Start != 0 {
		w.Start += offset
	}
	if w.End != 0 {
		w.End += offset
	}
	return w
}
