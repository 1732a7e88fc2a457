package reports

import (
	"context"
	"time"

	"github.com/denimhub/denimhub-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Window selects the orders a sales aggregate runs over. Amounts are never summed
// across currencies.
type Window struct {
	From     time.Time
	To       time.Time
	Currency enums.Currency
}

// Repository runs the sales aggregates. Cancelled orders never count as sales.
type Repository interface {
	Summary(ctx context.Context, window Window) (*summaryRow, error)
	ItemsSold(ctx context.Context, window Window) (int64, error)
	Daily(ctx context.Context, window Window) ([]dailyRow, error)
	TopProducts(ctx context.Context, window Window, limit int) ([]TopProduct, error)
}

type summaryRow struct {
	Orders  int64
	Revenue decimal.Decimal
}

type dailyRow struct {
	Day     string
	Orders  int64
	Revenue decimal.Decimal
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) salesOrders(ctx context.Context, window Window) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders AS o").
		Where("o.status <> ?", enums.OrderStatusCancelled).
		Where("o.currency = ?", window.Currency).
		Where("o.created_at >= ? AND o.created_at < ?", window.From, window.To)
}

func (r *repository) Summary(ctx context.Context, window Window) (*summaryRow, error) {
	var row summaryRow
	err := r.salesOrders(ctx, window).
		Select("COUNT(*) AS orders, COALESCE(SUM(o.total_amount), 0) AS revenue").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ItemsSold(ctx context.Context, window Window) (int64, error) {
	var total int64
	err := r.salesOrders(ctx, window).
		Joins("JOIN order_items oi ON oi.order_id = o.id").
		Select("COALESCE(SUM(oi.quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) Daily(ctx context.Context, window Window) ([]dailyRow, error) {
	var rows []dailyRow
	err := r.salesOrders(ctx, window).
		Select("DATE(o.created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(o.total_amount), 0) AS revenue").
		Group("DATE(o.created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TopProducts(ctx context.Context, window Window, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := r.salesOrders(ctx, window).
		Joins("JOIN order_items oi ON oi.order_id = o.id").
		Select("oi.product_name, SUM(oi.quantity) AS quantity_sold, COALESCE(SUM(oi.subtotal), 0) AS revenue").
		Group("oi.product_name").
		Order("quantity_sold DESC").
		Order("oi.product_name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
