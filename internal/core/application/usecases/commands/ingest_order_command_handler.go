package commands

import (
	"context"
)

// IngestOrderCommandHandler adds an order to the planning pool. Any delivery
// progress recorded on the aggregate is reset first, so a replayed historical
// order enters the pool as if it had just been placed.
type IngestOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewIngestOrderCommandHandler creates a handler for order ingestion.
func NewIngestOrderCommandHandler(uowFactory OrderUoWFactory) IngestOrderCommandHandler {
	return IngestOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle persists the order with a fresh delivery state.
func (h IngestOrderCommandHandler) Handle(ctx context.Context, command IngestOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o := command.Order()
	o.ResetDelivery()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
