// Package courier provides the Courier aggregate for the dispatch system.
//
// The package includes:
//   - Courier: The aggregate root owning availability, location, and the stop queue
//   - Stop: One pickup or dropoff leg with estimated and actual timings
//   - Shift: A scheduled on-call window
//
// Key business rules:
//   - A courier executes at most one stop at a time
//   - An off-call courier with an active stop must still finish it
//   - Failing a stop empties the remaining route; the courier is re-planned
package courier
