// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each command depends only on the repositories it actually touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// EventRepoFactory provides access to the event repository within a transaction.
	EventRepoFactory interface {
		EventRepository() ports.EventRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PlanUoW manages transactions for route planning, which rewrites courier
	// routes and reschedules the orders placed on them.
	PlanUoW interface {
		TxManager
		CourierRepoFactory
		OrderRepoFactory
	}

	// PlanUoWFactory creates new planning unit of work instances.
	PlanUoWFactory interface {
		Create() PlanUoW
	}

	// StopUoW manages transactions for stop lifecycle transitions, which
	// touch the courier, its order, and the event trail together.
	StopUoW interface {
		TxManager
		CourierRepoFactory
		OrderRepoFactory
		EventRepoFactory
	}

	// StopUoWFactory creates new stop lifecycle unit of work instances.
	StopUoWFactory interface {
		Create() StopUoW
	}
)
