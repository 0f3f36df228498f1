package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrUpdateStopCommandIsNotConstructed = errors.New(
		"UpdateStopCommand must be created via NewUpdateStopCommand constructor",
	)
	ErrTransitionIsInvalid = errors.New("transition must be arrived, completed or failed")
)

// StopTransition is what actually happened at the courier's active stop.
type StopTransition string

const (
	TransitionArrived   StopTransition = "arrived"
	TransitionCompleted StopTransition = "completed"
	TransitionFailed    StopTransition = "failed"
)

// UpdateStopCommand reports a real-world outcome at a courier's active stop:
// the courier arrived, finished, or gave up. Failures carry a reason and a
// free-text description; a "food-not-ready" reason embeds the reported wait
// in minutes in the description.
type UpdateStopCommand struct { //nolint:recvcheck //using for validation
	courierID   kernel.UUID
	transition  StopTransition
	reason      string
	description string
	at          time.Time

	guard guard.ConstructorGuard
}

// NewUpdateStopCommand creates a command reporting one stop transition.
func NewUpdateStopCommand(
	courierID kernel.UUID,
	transition StopTransition,
	reason string,
	description string,
	at time.Time,
) (UpdateStopCommand, error) {
	command := UpdateStopCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := courierID.Validate(); err != nil {
		return UpdateStopCommand{}, err
	}
	switch transition {
	case TransitionArrived, TransitionCompleted, TransitionFailed:
	default:
		return UpdateStopCommand{}, ErrTransitionIsInvalid
	}
	if at.IsZero() {
		return UpdateStopCommand{}, ErrAtIsRequired
	}

	command.courierID = courierID
	command.transition = transition
	command.reason = reason
	command.description = description
	command.at = at

	return command, nil
}

// CourierID returns the courier reporting the transition.
func (c *UpdateStopCommand) CourierID() kernel.UUID { return c.courierID }

// Transition returns what happened at the stop.
func (c *UpdateStopCommand) Transition() StopTransition { return c.transition }

// Reason returns the failure reason, empty for non-failures.
func (c *UpdateStopCommand) Reason() string { return c.reason }

// Description returns the free-text detail accompanying the transition.
func (c *UpdateStopCommand) Description() string { return c.description }

// At returns the moment the transition happened.
func (c *UpdateStopCommand) At() time.Time { return c.at }

// Validate ensures the command was created through the constructor.
func (c *UpdateStopCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStopCommandIsNotConstructed)
}
