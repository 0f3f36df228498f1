// Package queries contains read-only operations backed by raw SQL.
// Read models bypass the aggregate layer for performance, per CQRS.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetActiveCouriersQueryIsNotConstructed = errors.New(
	"GetActiveCouriersQuery must be created via NewGetActiveCouriersQuery constructor",
)

// GetActiveCouriersQuery retrieves every courier with their availability and
// position for the dispatch dashboard.
//
// Example:
//
//	query := NewGetActiveCouriersQuery()
//	handler := NewGetActiveCouriersQueryHandler(db)
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get couriers: %w", err)
//	}
type GetActiveCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveCouriersQuery creates a query to retrieve courier availability.
func NewGetActiveCouriersQuery() GetActiveCouriersQuery {
	return GetActiveCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveCouriersQueryIsNotConstructed)
}

// GetActiveCouriersQueryResponse is one courier row of the availability view.
type GetActiveCouriersQueryResponse struct {
	ID       kernel.UUID
	Name     string
	OnCall   bool
	Location kernel.GeoPoint
}
