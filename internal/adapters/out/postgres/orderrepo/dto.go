// Package orderrepo implements order persistence on PostgreSQL.
// Delivery bookkeeping columns stay flat so read models can filter on them;
// nested snapshots (restaurant, customer, courier) are jsonb blobs.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID               uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Passcode         string             `gorm:"type:varchar(32);not null"`
	Status           string             `gorm:"type:varchar(16);not null;index"`
	Region           string             `gorm:"type:varchar(64);not null;index"`
	Restaurant       order.Restaurant   `gorm:"serializer:json;type:jsonb"`
	Customer         order.Customer     `gorm:"serializer:json;type:jsonb"`
	DeliveryAddress  order.Address      `gorm:"serializer:json;type:jsonb"`
	Items            pq.StringArray     `gorm:"type:text[]"`
	CreatedAt        time.Time          `gorm:"not null;index"`
	DeliveryStatus   string             `gorm:"type:varchar(32);not null;index"`
	Courier          *order.CourierInfo `gorm:"serializer:json;type:jsonb"`
	DeliveredAt      *time.Time
	DeliveryFinishAt *time.Time
	EstimateMin      int `gorm:"not null"`
	EstimateMax      int `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		Passcode:         aggregate.Passcode(),
		Status:           aggregate.Status().String(),
		Region:           aggregate.Region(),
		Restaurant:       aggregate.Restaurant(),
		Customer:         aggregate.Customer(),
		DeliveryAddress:  aggregate.DeliveryAddress(),
		Items:            aggregate.Items(),
		CreatedAt:        aggregate.CreatedAt(),
		DeliveryStatus:   aggregate.DeliveryStatus().String(),
		Courier:          aggregate.Courier(),
		DeliveredAt:      aggregate.DeliveredAt(),
		DeliveryFinishAt: aggregate.DeliveryFinishAt(),
		EstimateMin:      aggregate.DeliveryEstimate().Min,
		EstimateMax:      aggregate.DeliveryEstimate().Max,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	deliveryStatus, err := order.DeliveryStatusFromString(dto.DeliveryStatus)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.Passcode,
		status,
		dto.Restaurant,
		dto.Customer,
		dto.DeliveryAddress,
		dto.Region,
		dto.Items,
		dto.CreatedAt,
		deliveryStatus,
		dto.Courier,
		dto.DeliveredAt,
		dto.DeliveryFinishAt,
		order.EstimateWindow{Min: dto.EstimateMin, Max: dto.EstimateMax},
	)
}
