package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenOrdersQueryHandler reads in-flight orders straight from the
// database, skipping aggregate reconstruction.
type GetOpenOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenOrdersQueryHandler creates a handler for in-flight order queries.
func NewGetOpenOrdersQueryHandler(db *gorm.DB) GetOpenOrdersQueryHandler {
	return GetOpenOrdersQueryHandler{db: db}
}

// Handle executes the query. Returns confirmed orders that are neither
// delivered nor in a terminal delivery state, oldest first.
func (h GetOpenOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOpenOrdersQuery,
) ([]GetOpenOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetOpenOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			passcode,
			region,
			delivery_status,
			delivery_finish_at
		FROM orders
		WHERE status = ?
		  AND delivered_at IS NULL
		  AND delivery_status NOT IN (?, ?)
		ORDER BY created_at
	`,
		order.StatusConfirmed.String(),
		order.DeliveryCompleted.String(),
		order.DeliveryFailed.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOpenOrdersQueryResponse
		var id uuid.UUID
		var finishAt sql.NullTime

		err = rows.Scan(
			&id,
			&resp.Passcode,
			&resp.Region,
			&resp.DeliveryStatus,
			&finishAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		if finishAt.Valid {
			t := finishAt.Time
			resp.FinishAt = &t
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
