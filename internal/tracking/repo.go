package tracking

import (
	"context"

	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"gorm.io/gorm"
)

type Repository interface {
	FindByToken(ctx context.Context, token string) (*models.Order, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByToken(ctx context.Context, token string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Shipping").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where("unique_token = ?", token).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
