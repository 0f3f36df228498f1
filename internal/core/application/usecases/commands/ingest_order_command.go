package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrIngestOrderCommandIsNotConstructed = errors.New(
	"IngestOrderCommand must be created via NewIngestOrderCommand constructor",
)

// IngestOrderCommand feeds one order into the planning pool. Used both for
// live order intake and for replaying historical fixtures, where recorded
// delivery progress must be wiped before the order is planned again.
type IngestOrderCommand struct { //nolint:recvcheck //using for validation
	order *order.Order

	guard guard.ConstructorGuard
}

// NewIngestOrderCommand creates a command carrying a constructed order aggregate.
func NewIngestOrderCommand(o *order.Order) (IngestOrderCommand, error) {
	if err := o.Validate(); err != nil {
		return IngestOrderCommand{}, err
	}

	return IngestOrderCommand{
		order: o,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Order returns the aggregate to ingest.
func (c *IngestOrderCommand) Order() *order.Order { return c.order }

// Validate ensures the command was created through the constructor.
func (c *IngestOrderCommand) Validate() error {
	return c.guard.Validate(ErrIngestOrderCommandIsNotConstructed)
}
