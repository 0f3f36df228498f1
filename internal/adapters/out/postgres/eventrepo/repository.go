package eventrepo

import (
	"context"

	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// GormEventRepository implements ports.EventRepository using GORM.
// Events are append-only: they are never updated or deleted.
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GORM event repository.
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Add appends an event to the log.
func (r *GormEventRepository) Add(ctx context.Context, event ports.Event) error {
	dto := fromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}
