package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/vrp"
)

// ErrOptimizerFailed is returned when the route optimizer responds with a
// non-finished status or cannot be reached at all. A planning run that hits
// this error is aborted without touching any courier's route.
var ErrOptimizerFailed = errors.New("route optimizer failed")

// OptimizerClient solves a vehicle routing problem against the external
// optimizer service.
type OptimizerClient interface {
	// Solve submits the problem and blocks until the optimizer finishes.
	// Returns ErrOptimizerFailed when the solver reports anything but a
	// finished status.
	Solve(ctx context.Context, problem vrp.Problem) (vrp.Output, error)
}
