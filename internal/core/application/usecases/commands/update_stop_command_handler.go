package commands

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ReasonFoodNotReady requeues the failed order with a longer prepare time
// instead of abandoning it.
const ReasonFoodNotReady = "food-not-ready"

// ErrFoodDelayIsMissing means a food-not-ready failure arrived without the
// reported wait in minutes anywhere in its description.
var ErrFoodDelayIsMissing = errors.New(
	"food-not-ready description must include the delay in minutes",
)

var delayPattern = regexp.MustCompile(`\d+`)

// UpdateStopCommandHandler applies one real-world stop outcome: it advances
// the courier's stop queue and the order's delivery status together, records
// the lifecycle event with the estimate-versus-actual deviation, and ripples
// that deviation through the rest of the courier's schedule.
//
// A failure empties the courier's route. When the failure reason is
// food-not-ready the order is requeued with a prepare time stretched to when
// the food will actually be ready, so the next optimization run dispatches a
// courier later instead of dropping the order.
type UpdateStopCommandHandler struct {
	uowFactory StopUoWFactory
	stamps     ports.RunStampStore
}

// NewUpdateStopCommandHandler creates a handler for stop transitions.
func NewUpdateStopCommandHandler(uowFactory StopUoWFactory, stamps ports.RunStampStore) UpdateStopCommandHandler {
	return UpdateStopCommandHandler{
		uowFactory: uowFactory,
		stamps:     stamps,
	}
}

// Handle processes the transition. Fails with courier.ErrNoActiveStop when
// the courier has nothing in progress, courier.ErrAlreadyArrived on a double
// arrival, and courier.ErrNotYetArrived on completing before arriving.
func (h UpdateStopCommandHandler) Handle(ctx context.Context, command UpdateStopCommand) error {
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

	var (
		stop   courier.Stop
		diff   int
		status string
	)

	switch command.Transition() {
	case TransitionArrived:
		diff, err = c.ArriveAtStop(command.At())
		if err != nil {
			return err
		}
		stop = *c.Stops().Next
		status = fmt.Sprintf("at-%s", stop.Leg)

	case TransitionCompleted:
		stop, diff, err = c.CompleteStop(command.At())
		if err != nil {
			return err
		}
		if stop.Leg == order.LegPickup {
			status = "pickup-completed"
		} else {
			status = "completed"
		}

	case TransitionFailed:
		stop, diff, err = c.FailStop(command.At())
		if err != nil {
			return err
		}
		status = "failed"
	}

	o, err := uow.OrderRepository().Get(ctx, stop.Order.ID)
	if err != nil {
		return err
	}

	if err := h.applyToOrder(o, stop, command); err != nil {
		return err
	}

	services.PropagateDelay(c.Stops(), diff)

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err := uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}

	eventName := fmt.Sprintf("order.delivery.%s", status)
	if status == "completed" {
		eventName = "order.delivered"
	}

	estimateAt := stop.FinishAt
	if command.Transition() == TransitionArrived {
		estimateAt = stop.ArriveAt
	}
	actual := command.At()

	event := ports.Event{
		Name:       eventName,
		OccurredAt: command.At(),
		Data: ports.EventData{
			Courier:     c.Info(),
			Stop:        &stop,
			Reason:      command.Reason(),
			Description: command.Description(),
			Estimate:    &estimateAt,
			Actual:      &actual,
			DiffMinutes: diff,
		},
		Scope: ports.EventScope{
			Order:      stop.Order.ID.String(),
			Account:    c.ID().String(),
			Restaurant: stop.Order.RestaurantID.String(),
		},
	}
	if err := uow.EventRepository().Add(ctx, event); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if _, err := h.stamps.Touch(ctx, stop.Order.Region); err != nil {
		return err
	}

	return nil
}

func (h UpdateStopCommandHandler) applyToOrder(
	o *order.Order,
	stop courier.Stop,
	command UpdateStopCommand,
) error {
	switch command.Transition() {
	case TransitionArrived:
		return o.MarkArrived(stop.Leg)

	case TransitionCompleted:
		return o.MarkLegCompleted(stop.Leg, command.At())

	case TransitionFailed:
		if err := o.MarkFailed(); err != nil {
			return err
		}
		if command.Reason() != ReasonFoodNotReady {
			return nil
		}

		match := delayPattern.FindString(command.Description())
		if match == "" {
			return ErrFoodDelayIsMissing
		}
		delay, err := strconv.Atoi(match)
		if err != nil {
			return ErrFoodDelayIsMissing
		}

		// Stretch the prepare time to cover the elapsed cooking time plus
		// the reported wait, and push the promise windows out by the same
		// slip, so the next run plans a later dispatch.
		oldPrepare := o.PrepareMinutes()
		newPrepare := int(command.At().Sub(o.CreatedAt()).Minutes()) + delay
		return o.Requeue(newPrepare, newPrepare-oldPrepare)
	}

	return ErrTransitionIsInvalid
}
