package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates the application's scheduled jobs behind one
// start/stop pair for the composition root.
type JobManager struct {
	replanJob *ReplanJob
}

// NewJobManager creates a manager owning the periodic replan job.
func NewJobManager(
	replanHandler commands.ReplanRoutesCommandHandler,
	regions []string,
	replanSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		replanJob: NewReplanJob(replanHandler, regions, replanSchedule, logger),
	}
}

// StartAll starts every scheduled job.
func (jm *JobManager) StartAll() error {
	if err := jm.replanJob.Start(); err != nil {
		return fmt.Errorf("start replan job: %w", err)
	}
	return nil
}

// StopAll stops every scheduled job gracefully.
func (jm *JobManager) StopAll() {
	jm.replanJob.Stop()
}
