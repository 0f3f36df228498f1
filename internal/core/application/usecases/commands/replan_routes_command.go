package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/guard"
)

var (
	ErrReplanRoutesCommandIsNotConstructed = errors.New(
		"ReplanRoutesCommand must be created via NewReplanRoutesCommand constructor",
	)
	ErrRegionIsRequired = errors.New("region is required")
	ErrAtIsRequired     = errors.New("at time is required")
)

// ReplanRoutesCommand requests a full re-optimization of every dispatchable
// courier's route in one region, as seen at a given moment.
//
// Example:
//
//	cmd, err := NewReplanRoutesCommand("soma", clock.Now())
//	if err != nil {
//	    return err
//	}
//	_, err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrNoDeliveriesToPlan):
//	    // nothing to do this round
//	case errors.Is(err, ErrDuplicateRun):
//	    // routes changed mid-run, next run will pick it up
//	case err != nil:
//	    return err
//	}
type ReplanRoutesCommand struct { //nolint:recvcheck //using for validation
	region string
	at     time.Time

	guard guard.ConstructorGuard
}

// NewReplanRoutesCommand creates a command to replan one region's routes at
// the given moment. The moment is the planning reference: it is simulated
// time during a replay and wall-clock time in live operation.
func NewReplanRoutesCommand(region string, at time.Time) (ReplanRoutesCommand, error) {
	command := ReplanRoutesCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRegion(region),
		command.setAt(at),
	); err != nil {
		return ReplanRoutesCommand{}, err
	}

	return command, nil
}

// Region returns the region whose routes are replanned.
func (c *ReplanRoutesCommand) Region() string { return c.region }

// At returns the planning reference time.
func (c *ReplanRoutesCommand) At() time.Time { return c.at }

// Validate ensures the command was created through the constructor.
func (c *ReplanRoutesCommand) Validate() error {
	return c.guard.Validate(ErrReplanRoutesCommandIsNotConstructed)
}

func (c *ReplanRoutesCommand) setRegion(region string) error {
	if region == "" {
		return ErrRegionIsRequired
	}
	c.region = region
	return nil
}

func (c *ReplanRoutesCommand) setAt(at time.Time) error {
	if at.IsZero() {
		return ErrAtIsRequired
	}
	c.at = at
	return nil
}
