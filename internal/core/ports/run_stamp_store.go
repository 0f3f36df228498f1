package ports

import "context"

// RunStampStore tracks, per region, when courier stop queues last changed.
// A planning run reads the stamp before solving and again before applying
// the solution; a changed stamp means the routes it planned against are
// stale and the run must be discarded. Stop lifecycle transitions touch the
// stamp to invalidate any run in flight.
type RunStampStore interface {
	// Current returns the region's stamp, zero when none was ever written.
	Current(ctx context.Context, region string) (int64, error)

	// Touch writes a fresh monotonic stamp for the region and returns it.
	Touch(ctx context.Context, region string) (int64, error)
}
