// Package jobs provides the scheduled background tasks of the dispatch
// service, built on github.com/robfig/cron/v3.
//
// The only periodic task is route replanning. Most replans are triggered by
// events (an order arriving, a stop transition), but a cron-driven sweep per
// region catches what events cannot: couriers coming on or off shift, orders
// deferred because a previous run's backlog was full, and plans drifting
// against the clock.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(replanHandler, regions, "0 * * * * *", logger)
//	if err := jobManager.StartAll(); err != nil {
//		// handle
//	}
//	defer jobManager.StopAll()
//
// The replan job treats an empty region (no orders, no couriers) as a quiet
// success and a stale run as informational; only real failures are logged as
// errors.
package jobs
