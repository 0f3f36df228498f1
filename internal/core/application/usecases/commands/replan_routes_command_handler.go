package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/vrp"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

var (
	// ErrDuplicateRun means courier stop queues changed while the optimizer
	// was solving. The solution is stale and must be discarded.
	ErrDuplicateRun = errors.New("stops changed during optimization run")

	// ErrUnservedOrders means the optimizer could not place every order on a
	// route. The run is aborted so no partial plan is applied.
	ErrUnservedOrders = errors.New("optimizer left orders unserved")
)

// ReplanRoutesCommandHandler runs one full optimization round: snapshot the
// fleet and open orders, solve, and replace every courier's route with the
// solved sequence.
//
// The optimizer runs on wall-clock time while a replay runs on simulated
// time, so the problem is shifted onto the wall clock before solving and the
// solution is shifted back before it is applied. A run stamp read before
// solving and re-read before applying guards against racing with stop
// lifecycle transitions.
type ReplanRoutesCommandHandler struct {
	uowFactory PlanUoWFactory
	optimizer  ports.OptimizerClient
	stamps     ports.RunStampStore
	now        func() time.Time
}

// NewReplanRoutesCommandHandler creates a handler for route replanning.
// The now function supplies wall-clock time for the optimizer shift; pass
// time.Now outside of tests.
func NewReplanRoutesCommandHandler(
	uowFactory PlanUoWFactory,
	optimizer ports.OptimizerClient,
	stamps ports.RunStampStore,
	now func() time.Time,
) ReplanRoutesCommandHandler {
	return ReplanRoutesCommandHandler{
		uowFactory: uowFactory,
		optimizer:  optimizer,
		stamps:     stamps,
		now:        now,
	}
}

// Handle processes one replanning round. It reports whether the applied plan
// left an on-call courier without a route, so the caller can decide whether
// another round is worth scheduling.
//
// Benign outcomes surface as sentinel errors the caller can choose to
// swallow: services.ErrNoCouriersAvailable and services.ErrNoDeliveriesToPlan
// when there is nothing to plan, ErrDuplicateRun when the run went stale.
// ErrUnservedOrders and ports.ErrOptimizerFailed indicate the plan could not
// be produced at all.
func (h ReplanRoutesCommandHandler) Handle(ctx context.Context, command ReplanRoutesCommand) (bool, error) {
	if err := command.Validate(); err != nil {
		return false, err
	}

	stamp, err := h.stamps.Current(ctx, command.Region())
	if err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriers, err := uow.CourierRepository().GetAll(ctx)
	if err != nil {
		return false, err
	}

	orders, err := uow.OrderRepository().GetAllOpen(ctx)
	if err != nil {
		return false, err
	}

	fleet, err := services.BuildFleet(couriers, command.At())
	if err != nil {
		return false, err
	}

	visits, err := services.BuildVisits(orders, command.At())
	if err != nil {
		return false, err
	}

	problem := vrp.Problem{
		Visits:  visits,
		Fleet:   fleet,
		Options: vrp.DefaultOptions(),
	}

	wallNow := h.now()
	out, err := h.optimizer.Solve(ctx, services.ShiftProblem(problem, command.At(), wallNow))
	if err != nil {
		return false, err
	}

	if len(out.Unserved) > 0 {
		return false, fmt.Errorf("%w: %s", ErrUnservedOrders, unservedSummary(out.Unserved))
	}

	// Solving takes real time; a stop transition in the meantime makes this
	// plan stale.
	current, err := h.stamps.Current(ctx, command.Region())
	if err != nil {
		return false, err
	}
	if current != stamp {
		return false, ErrDuplicateRun
	}

	solution := services.UnshiftSolution(out.Solution, command.At(), wallNow)

	ordersByID := make(map[string]*order.Order, len(orders))
	for _, o := range orders {
		ordersByID[o.ID().String()] = o
	}

	freeDriver := false
	scheduled := map[string]*order.Order{}

	for _, c := range couriers {
		solved, ok := solution[c.ID().String()]
		if !ok {
			continue
		}

		startAt, route, err := services.AssembleRoute(solved, ordersByID)
		if err != nil {
			return false, err
		}

		polyline := ""
		if lines := out.Polylines[c.ID().String()]; len(lines) > 0 {
			polyline = lines[0]
		}

		if err := c.ReplaceRoute(startAt, route, polyline); err != nil {
			return false, err
		}

		if err := uow.CourierRepository().Update(ctx, c); err != nil {
			return false, err
		}

		for _, s := range route {
			if o, ok := ordersByID[s.Order.ID.String()]; ok {
				scheduled[s.Order.ID.String()] = o
			}
		}

		if c.OnCall() && len(c.Stops().Route) == 0 {
			freeDriver = true
		}
	}

	for _, o := range scheduled {
		if err := uow.OrderRepository().Update(ctx, o); err != nil {
			return false, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return false, err
	}

	return freeDriver, nil
}

func unservedSummary(unserved map[string]string) string {
	parts := make([]string, 0, len(unserved))
	for id, reason := range unserved {
		parts = append(parts, fmt.Sprintf("%s (%s)", id, reason))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
