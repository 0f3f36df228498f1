package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// ErrAssignmentConflict means another courier already holds the order the
// popped pickup belongs to. The route that produced the stop is stale.
var ErrAssignmentConflict = errors.New("order already assigned to another courier")

// BeginStopCommandHandler pops the next stop off a courier's route, assigns
// the courier to the order, and records the en-route event. The region's run
// stamp is touched after commit so a concurrent optimization run discards
// its now-stale plan.
type BeginStopCommandHandler struct {
	uowFactory StopUoWFactory
	stamps     ports.RunStampStore
}

// NewBeginStopCommandHandler creates a handler for starting stops.
func NewBeginStopCommandHandler(uowFactory StopUoWFactory, stamps ports.RunStampStore) BeginStopCommandHandler {
	return BeginStopCommandHandler{
		uowFactory: uowFactory,
		stamps:     stamps,
	}
}

// Handle processes the begin-stop command. Fails with
// courier.ErrStopInProgress when a stop is already active,
// courier.ErrNoMoreWork on an empty queue, and ErrAssignmentConflict when the
// order was taken by someone else since the route was planned.
func (h BeginStopCommandHandler) Handle(ctx context.Context, command BeginStopCommand) error {
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

	c, err := uow.CourierRepository().Get(ctx, command.CourierID())
	if err != nil {
		return err
	}

	next, err := c.BeginNextStop()
	if err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, next.Order.ID)
	if err != nil {
		return err
	}

	if next.Leg == order.LegPickup {
		if holder := o.Courier(); holder != nil && !holder.ID.IsEqual(c.ID()) {
			return fmt.Errorf("order #%s: %w", o.Passcode(), ErrAssignmentConflict)
		}
	}

	if err := o.MarkEnRoute(next.Leg, c.Info()); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err := uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}

	estimate := next.FinishAt
	event := ports.Event{
		Name:       fmt.Sprintf("order.delivery.en-route-to-%s", next.Leg),
		OccurredAt: command.At(),
		Data: ports.EventData{
			Courier:  c.Info(),
			Stop:     next,
			Estimate: &estimate,
		},
		Scope: ports.EventScope{
			Order:   next.Order.ID.String(),
			Account: c.ID().String(),
		},
	}
	if err := uow.EventRepository().Add(ctx, event); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if _, err := h.stamps.Touch(ctx, next.Order.Region); err != nil {
		return err
	}

	return nil
}
