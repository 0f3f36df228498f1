// Package services provides the pure dispatch algorithms that sit between the
// live domain state and the external route optimizer.
//
// The package includes:
//   - BuildFleet / BuildVisits: snapshot builders producing an optimizer request
//   - ShiftProblem / UnshiftSolution: time-window normalization around a solver call
//   - AssembleRoute: turning one courier's solved sequence into an ordered stop queue
//   - ResequencePickups: same-restaurant pickup ordering by original order time
//   - PropagateDelay: downstream schedule adjustment after a real-world deviation
//
// All functions are side-effect free with respect to external systems; they
// mutate only the aggregates handed to them. Persistence is the caller's job.
package services
