// Package vrp defines the wire types exchanged with the external vehicle
// routing optimizer: the fleet and visit snapshots sent in a request, the
// solver options, and the per-courier stop sequences coming back. All times
// on the wire are Unix seconds.
package vrp

// IgnoreLocationName marks a pickup that was collapsed onto its dropoff
// because the courier already started that leg. The solver keeps it as a
// waypoint; the route applier discards it.
const IgnoreLocationName = "ignore"

// TypeAll marks a visit deliverable by any courier, and a fleet entry
// eligible for new work.
const TypeAll = "all"

// Location is a named coordinate pair.
type Location struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// FleetEntry describes one courier's start conditions for the solver.
// Type lists the eligibility tags: the courier's own id always, plus "all"
// when the courier may take new work.
type FleetEntry struct {
	Type          []string `json:"type"`
	StartLocation Location `json:"start_location"`
	ShiftStart    int64    `json:"shift_start"`
	Unskilled     bool     `json:"unskilled,omitempty"`
}

// Fleet maps courier id to its start conditions.
type Fleet map[string]FleetEntry

// Window is one side of a visit: where to go and when it is serviceable.
// Zero Start/End mean unconstrained.
type Window struct {
	Location Location `json:"location"`
	Start    int64    `json:"start,omitempty"`
	End      int64    `json:"end,omitempty"`
	Duration int      `json:"duration,omitempty"`
}

// Visit is one order's pickup+dropoff requirement. Type is "all" or a
// specific courier id the visit is pinned to.
type Visit struct {
	Load    int    `json:"load"`
	Pickup  Window `json:"pickup"`
	Dropoff Window `json:"dropoff"`
	Type    string `json:"type"`
}

// Visits maps order id to its visit.
type Visits map[string]Visit

// PenaltyLevels configures the stepped dropoff lateness penalty.
type PenaltyLevels struct {
	SplitMinute        int     `json:"split_minute"`
	PenaltyCoefficient float64 `json:"penalty_coefficient"`
}

// UnskilledPenalty configures penalty weighting for unskilled couriers.
type UnskilledPenalty struct {
	Open               bool    `json:"open"`
	PenaltyCoefficient float64 `json:"penalty_coefficient"`
}

// Options tunes the solver run.
type Options struct {
	LatenessPenalty              int              `json:"lateness_penalty"`
	DurationCoefficient          float64          `json:"duration_coefficient"`
	Map                          string           `json:"map,omitempty"`
	OpenPickupLatePenalty        bool             `json:"open_pickup_late_penalty"`
	OpenDropoffMultiLevelPenalty bool             `json:"open_dropoff_multi_level_penalty"`
	DropoffMultiLevelPenalty     PenaltyLevels    `json:"dropoff_multi_level_penalty"`
	UnskilledPenalty             UnskilledPenalty `json:"unskilled_penalty"`
}

// DefaultOptions returns the solver defaults used when a region has no overrides.
func DefaultOptions() Options {
	return Options{
		LatenessPenalty:     15,
		DurationCoefficient: 1,
		DropoffMultiLevelPenalty: PenaltyLevels{
			SplitMinute:        15,
			PenaltyCoefficient: 1,
		},
		UnskilledPenalty: UnskilledPenalty{
			PenaltyCoefficient: 1,
		},
	}
}

// Problem is a complete solver request.
type Problem struct {
	Visits  Visits  `json:"visits"`
	Fleet   Fleet   `json:"fleet"`
	Options Options `json:"options"`
}

// SolutionStop is one element of a courier's solved sequence. The first
// element of every sequence is the courier's start pseudo-stop and carries no
// Type. LocationID is the order id for real stops. Distance is in meters.
type SolutionStop struct {
	LocationID   string  `json:"location_id,omitempty"`
	LocationName string  `json:"location_name,omitempty"`
	Type         string  `json:"type,omitempty"`
	ArrivalTime  int64   `json:"arrival_time"`
	FinishTime   int64   `json:"finish_time"`
	Distance     float64 `json:"distance"`
}

// Solution maps courier id to its ordered stop sequence.
type Solution map[string][]SolutionStop

// Output is the payload of a finished solver run. Unserved maps order ids the
// solver could not place to the solver's reason.
type Output struct {
	Solution  Solution            `json:"solution"`
	Polylines map[string][]string `json:"polylines,omitempty"`
	Unserved  map[string]string   `json:"unserved,omitempty"`
}

// Response is the solver's top-level reply.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Output Output `json:"output"`
}

// StatusFinished is the Response.Status value for a successful run.
const StatusFinished = "finished"
