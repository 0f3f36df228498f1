// Package order provides the Order aggregate and the delivery status state
// machine for the dispatch system.
//
// The package includes:
//   - Order: The aggregate root owning the delivery sub-state of one order
//   - DeliveryStatus: The delivery lifecycle state machine with leg classification
//   - Denormalized snapshots (Restaurant, Customer, CourierInfo) carried on the order
//
// Key business rules:
//   - Only confirmed orders enter delivery planning
//   - Delivery status transitions follow the defined state machine
//   - An order has at most one courier assigned at a time
//   - A food-not-ready failure re-enters the plannable pool with shifted estimates
package order
