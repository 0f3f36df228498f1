package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveCouriersQueryHandler reads courier availability straight from the
// database, skipping aggregate reconstruction.
type GetActiveCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveCouriersQueryHandler creates a handler for courier availability queries.
func NewGetActiveCouriersQueryHandler(db *gorm.DB) GetActiveCouriersQueryHandler {
	return GetActiveCouriersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by name for stable output.
func (h GetActiveCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveCouriersQuery,
) ([]GetActiveCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]GetActiveCouriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			on_call,
			lat,
			lng
		FROM couriers
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetActiveCouriersQueryResponse
		var id uuid.UUID
		var lat, lng float64

		err = rows.Scan(
			&id,
			&resp.Name,
			&resp.OnCall,
			&lat,
			&lng,
		)
		if err != nil {
			return nil, err
		}

		courierID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = courierID

		location, locErr := kernel.NewGeoPoint(lat, lng)
		if locErr != nil {
			return nil, locErr
		}
		resp.Location = location

		couriers = append(couriers, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}
