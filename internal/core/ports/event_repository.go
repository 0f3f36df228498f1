package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
)

// EventData is the payload of a delivery lifecycle event: who was driving,
// which stop was affected, and how the actual time compared to the estimate.
type EventData struct {
	Courier     order.CourierInfo `json:"courier"`
	Stop        *courier.Stop     `json:"stop,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	Description string            `json:"description,omitempty"`
	Estimate    *time.Time        `json:"estimate,omitempty"`
	Actual      *time.Time        `json:"actual,omitempty"`
	DiffMinutes int               `json:"diff"`
}

// EventScope indexes an event by the entities it concerns.
type EventScope struct {
	Order      string `json:"order,omitempty"`
	Account    string `json:"account,omitempty"`
	Restaurant string `json:"restaurant,omitempty"`
}

// Event is one append-only record in the delivery audit trail, named like
// "order.delivery.en-route-to-pickup" or "order.delivered".
type Event struct {
	Name       string
	OccurredAt time.Time
	Data       EventData
	Scope      EventScope
}

// EventRepository appends delivery lifecycle events. Events are never
// updated or deleted.
type EventRepository interface {
	Add(ctx context.Context, event Event) error
}
