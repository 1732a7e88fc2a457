package activitylog

import (
	"context"

	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists and lists activity log rows.
type Repository interface {
	Create(ctx context.Context, row *models.ActivityLog) error
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.ActivityLog, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an activity log repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, row *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.ActivityLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.EntityType != "" {
		query = query.Where("entity_type = ?", filters.EntityType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params = params.Normalize()
	var rows []models.ActivityLog
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
