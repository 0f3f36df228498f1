package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/services"
)

// ReplanJob periodically reoptimizes courier routes, one region at a time.
// Event-driven replans (new order, stop transition) cover the common case;
// the periodic run picks up drift: couriers coming on shift, orders deferred
// by a full backlog, and plans gone stale against the clock.
type ReplanJob struct {
	handler  commands.ReplanRoutesCommandHandler
	regions  []string
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReplanJob creates a job replanning the given regions on the given cron
// schedule (with a seconds field, e.g. "0 * * * * *" for every minute).
func NewReplanJob(
	handler commands.ReplanRoutesCommandHandler,
	regions []string,
	schedule string,
	logger *slog.Logger,
) *ReplanJob {
	return &ReplanJob{
		handler:  handler,
		regions:  regions,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "replan_job"),
	}
}

// Start schedules the job. Returns an error when the schedule expression is
// invalid.
func (j *ReplanJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		for _, region := range j.regions {
			j.replanRegion(ctx, region)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("replan job started",
		"schedule", j.schedule, "regions", j.regions)
	return nil
}

func (j *ReplanJob) replanRegion(ctx context.Context, region string) {
	command, err := commands.NewReplanRoutesCommand(region, time.Now())
	if err != nil {
		j.logger.ErrorContext(ctx, "replan command rejected",
			"region", region, "error", err)
		return
	}

	freeDriver, err := j.handler.Handle(ctx, command)
	switch {
	case err == nil:
		if freeDriver {
			j.logger.InfoContext(ctx, "replan left a free driver",
				"region", region)
		}
	case errors.Is(err, services.ErrNoDeliveriesToPlan),
		errors.Is(err, services.ErrNoCouriersAvailable):
		// Quiet hours: nothing to plan is the normal state.
	case errors.Is(err, commands.ErrDuplicateRun):
		j.logger.InfoContext(ctx, "replan discarded, stops changed mid-run",
			"region", region)
	default:
		j.logger.ErrorContext(ctx, "replan failed",
			"region", region, "error", err)
	}
}

// Stop stops the job. Runs already in flight finish on their own.
func (j *ReplanJob) Stop() {
	j.cron.Stop()
	j.logger.Info("replan job stopped")
}
