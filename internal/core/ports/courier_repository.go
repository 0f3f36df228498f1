// Package ports defines the contracts between the dispatch core and
// infrastructure: repositories, the route optimizer client, and the run-stamp
// store. These interfaces keep the use case layer free of gorm, redis, and
// HTTP details.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists changes to an existing courier aggregate, including
	// its current stop queue.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAll retrieves every courier with its shifts and stop queue.
	// Dispatchability at a given moment is decided by the aggregate, not
	// the query.
	GetAll(ctx context.Context) ([]*courier.Courier, error)
}
