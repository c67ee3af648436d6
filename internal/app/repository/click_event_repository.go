package repository

import (
	"context"
	"time"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClickEventRepository defines the data access contract for click events.
type ClickEventRepository interface {
	// Create stores the event; redelivered events with a known ID are ignored.
	Create(ctx context.Context, event *model.ClickEvent) error
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
	CountByShortCode(ctx context.Context, code string) (int64, error)
}

type clickEventRepository struct {
	db *gorm.DB
}

// NewClickEventRepository returns a GORM-backed ClickEventRepository.
func NewClickEventRepository(db *gorm.DB) ClickEventRepository {
	return &clickEventRepository{db: db}
}

func (r *clickEventRepository) Create(ctx context.Context, event *model.ClickEvent) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(event).Error
}

func (r *clickEventRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("timestamp < ?", before).Delete(&model.ClickEvent{})
	return result.RowsAffected, result.Error
}

func (r *clickEventRepository) CountByShortCode(ctx context.Context, code string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.ClickEvent{}).Where("short_code = ?", code).Count(&total).Error
	return total, err
}
