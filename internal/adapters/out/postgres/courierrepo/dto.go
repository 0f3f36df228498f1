// Package courierrepo implements courier persistence on PostgreSQL.
// Scalar fields live in columns; shifts and the stop queue are document-like
// and change shape with every replan, so they are stored as jsonb blobs.
package courierrepo

import (
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
type CourierDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Email     string          `gorm:"type:varchar(255);not null"`
	Phone     string          `gorm:"type:varchar(32)"`
	OnCall    bool            `gorm:"not null"`
	Unskilled bool            `gorm:"not null"`
	Lat       float64         `gorm:"type:double precision;not null"`
	Lng       float64         `gorm:"type:double precision;not null"`
	Shifts    []courier.Shift `gorm:"serializer:json;type:jsonb"`
	Stops     courier.Stops   `gorm:"serializer:json;type:jsonb"`
}

// TableName overrides GORM's default naming to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		Email:     aggregate.Email(),
		Phone:     aggregate.Phone(),
		OnCall:    aggregate.OnCall(),
		Unskilled: aggregate.Unskilled(),
		Lat:       aggregate.Location().Lat(),
		Lng:       aggregate.Location().Lng(),
		Shifts:    aggregate.Shifts(),
		Stops:     *aggregate.Stops(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Email,
		dto.Phone,
		dto.OnCall,
		dto.Unskilled,
		location,
		dto.Shifts,
		dto.Stops,
	)
}
