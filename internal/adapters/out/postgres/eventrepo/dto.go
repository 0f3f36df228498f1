package eventrepo

import (
	"time"

	"dispatch/internal/core/ports"
)

// EventDTO is a database representation of a delivery event.
type EventDTO struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	Name            string          `gorm:"type:varchar(64);index"`
	OccurredAt      time.Time       `gorm:"index"`
	Data            ports.EventData `gorm:"serializer:json;type:jsonb"`
	ScopeOrder      string          `gorm:"type:varchar(64);index"`
	ScopeAccount    string          `gorm:"type:varchar(64)"`
	ScopeRestaurant string          `gorm:"type:varchar(64)"`
}

// TableName overrides the table name used by EventDTO.
func (EventDTO) TableName() string {
	return "events"
}

func fromDomain(event ports.Event) EventDTO {
	return EventDTO{
		Name:            event.Name,
		OccurredAt:      event.OccurredAt,
		Data:            event.Data,
		ScopeOrder:      event.Scope.Order,
		ScopeAccount:    event.Scope.Account,
		ScopeRestaurant: event.Scope.Restaurant,
	}
}
