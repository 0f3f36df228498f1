// Package sim replays a recorded day of orders and shifts through the real
// dispatch use cases, with time driven by events instead of a wall clock. It
// swaps postgres and redis for an in-memory store, so a full day replays in
// milliseconds and the outcome of a planning change can be inspected through
// the recorded event trail.
package sim
