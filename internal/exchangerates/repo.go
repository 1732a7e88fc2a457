package exchangerates

import (
	"context"

	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, includeInactive bool) ([]models.ExchangeRate, error)
	FindByID(ctx context.Context, id uint64, lock bool) (*models.ExchangeRate, error)
	FindPair(ctx context.Context, from, to enums.Currency, lock bool) (*models.ExchangeRate, error)
	FindActivePair(ctx context.Context, from, to enums.Currency) (*models.ExchangeRate, error)
	Create(ctx context.Context, rate *models.ExchangeRate) error
	Update(ctx context.Context, id uint64, updates map[string]any) error
	CreateLog(ctx context.Context, entry *models.ExchangeRateLog) error
	ListLogs(ctx context.Context, rateID uint64, params pagination.Params) ([]models.ExchangeRateLog, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, includeInactive bool) ([]models.ExchangeRate, error) {
	query := r.db.WithContext(ctx).Order("currency_from ASC, currency_to ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var rates []models.ExchangeRate
	if err := query.Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repository) FindByID(ctx context.Context, id uint64, lock bool) (*models.ExchangeRate, error) {
	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rate models.ExchangeRate
	if err := query.Where("id = ?", id).First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repository) FindPair(ctx context.Context, from, to enums.Currency, lock bool) (*models.ExchangeRate, error) {
	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rate models.ExchangeRate
	if err := query.Where("currency_from = ? AND currency_to = ?", from, to).First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repository) FindActivePair(ctx context.Context, from, to enums.Currency) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := r.db.WithContext(ctx).
		Where("currency_from = ? AND currency_to = ? AND is_active = ?", from, to, true).
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repository) Create(ctx context.Context, rate *models.ExchangeRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repository) Update(ctx context.Context, id uint64, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.ExchangeRate{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) CreateLog(ctx context.Context, entry *models.ExchangeRateLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListLogs(ctx context.Context, rateID uint64, params pagination.Params) ([]models.ExchangeRateLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ExchangeRateLog{}).Where("exchange_rate_id = ?", rateID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params = params.Normalize()
	var logs []models.ExchangeRateLog
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
