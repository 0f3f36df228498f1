package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrBeginStopCommandIsNotConstructed = errors.New(
	"BeginStopCommand must be created via NewBeginStopCommand constructor",
)

// BeginStopCommand requests that a courier start driving to the next stop in
// the queue. Issued when a courier finishes the previous stop or picks up a
// freshly planned route.
type BeginStopCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	at        time.Time

	guard guard.ConstructorGuard
}

// NewBeginStopCommand creates a command for the given courier at the given moment.
func NewBeginStopCommand(courierID kernel.UUID, at time.Time) (BeginStopCommand, error) {
	command := BeginStopCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := courierID.Validate(); err != nil {
		return BeginStopCommand{}, err
	}
	if at.IsZero() {
		return BeginStopCommand{}, ErrAtIsRequired
	}

	command.courierID = courierID
	command.at = at

	return command, nil
}

// CourierID returns the courier starting the stop.
func (c *BeginStopCommand) CourierID() kernel.UUID { return c.courierID }

// At returns the moment the stop begins.
func (c *BeginStopCommand) At() time.Time { return c.at }

// Validate ensures the command was created through the constructor.
func (c *BeginStopCommand) Validate() error {
	return c.guard.Validate(ErrBeginStopCommandIsNotConstructed)
}
