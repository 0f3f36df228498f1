package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

type candidateKind int

const (
	candidateShiftBoundary candidateKind = iota
	candidateOrderArrival
	candidateStopTransition
)

// candidate is one possible next event of the replay. The loop merges three
// streams of these and always consumes the earliest.
type candidate struct {
	at         time.Time
	kind       candidateKind
	courierID  kernel.UUID
	transition commands.StopTransition
}

// earliest returns the candidate with the smallest timestamp. Ties go to the
// candidate that was derived first, which keeps replays deterministic.
func earliest(candidates []candidate) (candidate, bool) {
	if len(candidates) == 0 {
		return candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.at.Before(best.at) {
			best = c
		}
	}
	return best, true
}

// DispatchLoop replays a day of dispatching against an in-memory store. Time
// is event-driven rather than ticked: the loop jumps straight to the next
// shift boundary, order arrival, or stop estimate, and runs the same command
// handlers the live service runs.
type DispatchLoop struct {
	store  *MemoryStore
	region string
	log    *slog.Logger

	pending    []*order.Order
	boundaries []time.Time
	now        time.Time

	ingest commands.IngestOrderCommandHandler
	replan commands.ReplanRoutesCommandHandler
	begin  commands.BeginStopCommandHandler
	update commands.UpdateStopCommandHandler

	// wallNow feeds the replan handler's optimizer time shift. Overridable
	// in tests for reproducible problems.
	wallNow func() time.Time
}

// NewDispatchLoop wires a replay over the given store. Couriers must already
// be seeded; orders are consumed from the given slice in creation order.
func NewDispatchLoop(
	store *MemoryStore,
	optimizer ports.OptimizerClient,
	region string,
	orders []*order.Order,
	log *slog.Logger,
) *DispatchLoop {
	pending := append([]*order.Order(nil), orders...)
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt().Before(pending[j].CreatedAt())
	})

	loop := &DispatchLoop{
		store:   store,
		region:  region,
		log:     log,
		pending: pending,
		wallNow: time.Now,
	}
	loop.boundaries = shiftBoundaries(store)
	loop.ingest = commands.NewIngestOrderCommandHandler(store.OrderUoWs())
	loop.begin = commands.NewBeginStopCommandHandler(store.StopUoWs(), store)
	loop.update = commands.NewUpdateStopCommandHandler(store.StopUoWs(), store)
	loop.replan = commands.NewReplanRoutesCommandHandler(
		store.PlanUoWs(), optimizer, store,
		func() time.Time { return loop.wallNow() },
	)
	return loop
}

// shiftBoundaries collects every shift start and end across the fleet,
// sorted and deduplicated. Each boundary triggers one replanning round.
func shiftBoundaries(store *MemoryStore) []time.Time {
	var boundaries []time.Time
	for _, c := range store.couriers {
		for _, shift := range c.Shifts() {
			boundaries = append(boundaries, shift.Start, shift.End)
		}
	}
	sort.Slice(boundaries, func(i, j int) bool {
		return boundaries[i].Before(boundaries[j])
	})
	deduped := boundaries[:0]
	for _, b := range boundaries {
		if len(deduped) == 0 || !deduped[len(deduped)-1].Equal(b) {
			deduped = append(deduped, b)
		}
	}
	return deduped
}

// Run drives the replay to completion. It returns nil when every order has
// been consumed and no delivery is in flight, and an error when the
// optimizer fails or leaves orders unserved.
func (l *DispatchLoop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.finished() {
			l.log.Info("replay finished",
				"region", l.region,
				"at", l.now,
				"events", len(l.store.events),
			)
			return nil
		}

		next, ok := l.earliestCandidate()
		if !ok {
			return fmt.Errorf("replay stalled at %s: deliveries in flight but no candidate events", l.now)
		}
		l.now = next.at

		var err error
		switch next.kind {
		case candidateShiftBoundary:
			l.boundaries = l.boundaries[1:]
			l.log.Debug("shift boundary", "at", next.at)
			err = l.replanCycle(ctx)
		case candidateOrderArrival:
			err = l.handleOrderArrival(ctx)
		case candidateStopTransition:
			err = l.handleStopTransition(ctx, next)
		}
		if err != nil {
			l.log.Error("replay halted", "at", l.now, "error", err)
			return err
		}
	}
}

// Now returns the replay's current simulated time.
func (l *DispatchLoop) Now() time.Time { return l.now }

// finished reports whether the replay has nothing left to do: no unconsumed
// orders and no courier with an active stop or a queued route.
func (l *DispatchLoop) finished() bool {
	if len(l.pending) > 0 {
		return false
	}
	for _, c := range l.store.couriers {
		stops := c.Stops()
		if stops.Next != nil || len(stops.Route) > 0 {
			return false
		}
	}
	return true
}

// earliestCandidate merges the three event streams. Derivation order fixes
// the tie break: shift boundary, then order arrival, then per-courier stop
// estimates in repository order.
func (l *DispatchLoop) earliestCandidate() (candidate, bool) {
	var candidates []candidate
	if len(l.boundaries) > 0 {
		candidates = append(candidates, candidate{
			at:   l.boundaries[0],
			kind: candidateShiftBoundary,
		})
	}
	if len(l.pending) > 0 {
		candidates = append(candidates, candidate{
			at:   l.pending[0].CreatedAt(),
			kind: candidateOrderArrival,
		})
	}
	couriers, _ := l.store.GetAll(context.Background())
	for _, c := range couriers {
		next := c.Stops().Next
		if next == nil {
			continue
		}
		transition := commands.TransitionArrived
		at := next.ArriveAt
		if next.ArrivedAt != nil {
			transition = commands.TransitionCompleted
			at = next.FinishAt
		}
		candidates = append(candidates, candidate{
			at:         at,
			kind:       candidateStopTransition,
			courierID:  c.ID(),
			transition: transition,
		})
	}
	return earliest(candidates)
}

// handleOrderArrival ingests the next pending order at its creation time and
// replans the region around it.
func (l *DispatchLoop) handleOrderArrival(ctx context.Context) error {
	next := l.pending[0]
	l.pending = l.pending[1:]

	command, err := commands.NewIngestOrderCommand(next)
	if err != nil {
		return err
	}
	if err := l.ingest.Handle(ctx, command); err != nil {
		return fmt.Errorf("ingest order %s: %w", next.ID(), err)
	}
	l.log.Debug("order ingested", "order", next.ID(), "at", l.now)

	return l.replanCycle(ctx)
}

// handleStopTransition reports the courier's arrival or completion at the
// simulated estimate. A completion frees the courier for its next stop, so
// idle routes are started before the region is replanned.
func (l *DispatchLoop) handleStopTransition(ctx context.Context, next candidate) error {
	command, err := commands.NewUpdateStopCommand(next.courierID, next.transition, "", "", l.now)
	if err != nil {
		return err
	}
	if err := l.update.Handle(ctx, command); err != nil {
		return fmt.Errorf("update stop for courier %s: %w", next.courierID, err)
	}
	l.log.Debug("stop transition",
		"courier", next.courierID,
		"transition", next.transition,
		"at", l.now,
	)

	if next.transition == commands.TransitionCompleted {
		if err := l.beginIdleStops(ctx); err != nil {
			return err
		}
	}
	return l.replanCycle(ctx)
}

// replanCycle runs one optimization round and starts any freshly assigned
// routes. Empty-plan and stale-run outcomes are normal during a replay and
// are swallowed; unserved orders and optimizer failures halt the run.
func (l *DispatchLoop) replanCycle(ctx context.Context) error {
	command, err := commands.NewReplanRoutesCommand(l.region, l.now)
	if err != nil {
		return err
	}
	freeDriver, err := l.replan.Handle(ctx, command)
	switch {
	case err == nil:
		if freeDriver {
			l.log.Debug("replan left a free driver", "at", l.now)
		}
	case errors.Is(err, services.ErrNoDeliveriesToPlan),
		errors.Is(err, services.ErrNoCouriersAvailable),
		errors.Is(err, commands.ErrDuplicateRun):
		l.log.Debug("replan skipped", "at", l.now, "reason", err)
		return nil
	default:
		return fmt.Errorf("replan region %s: %w", l.region, err)
	}
	return l.beginIdleStops(ctx)
}

// beginIdleStops activates the first stop of every courier that has a route
// but nothing in progress.
func (l *DispatchLoop) beginIdleStops(ctx context.Context) error {
	couriers, _ := l.store.GetAll(ctx)
	for _, c := range couriers {
		if !c.HasIdleRoute() {
			continue
		}
		command, err := commands.NewBeginStopCommand(c.ID(), l.now)
		if err != nil {
			return err
		}
		err = l.begin.Handle(ctx, command)
		switch {
		case err == nil:
		case errors.Is(err, courier.ErrStopInProgress), errors.Is(err, courier.ErrNoMoreWork):
		default:
			return fmt.Errorf("begin stop for courier %s: %w", c.ID(), err)
		}
	}
	return nil
}
