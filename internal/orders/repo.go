package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var sortColumns = map[string]string{
	"created_at":   "o.created_at",
	"total_amount": "o.total_amount",
	"order_number": "o.order_number",
	"status":       "o.status",
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// LockOrder loads the order header with a row lock held until the transaction ends.
func (r *repository) LockOrder(ctx context.Context, id uint64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrder(ctx context.Context, id uint64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *repository) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindItems(ctx context.Context, orderID uint64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) CreateTax(ctx context.Context, tax *models.OrderTax) error {
	return r.db.WithContext(ctx).Create(tax).Error
}

func (r *repository) CreateDiscount(ctx context.Context, discount *models.OrderDiscount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) UpdatePayments(ctx context.Context, orderID uint64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) CreateShipping(ctx context.Context, shipping *models.OrderShipping) error {
	return r.db.WithContext(ctx).Create(shipping).Error
}

func (r *repository) FindShipping(ctx context.Context, orderID uint64) (*models.OrderShipping, error) {
	var shipping models.OrderShipping
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&shipping).Error; err != nil {
		return nil, err
	}
	return &shipping, nil
}

func (r *repository) UpdateShipping(ctx context.Context, orderID uint64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderShipping{}).
		Where("order_id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) AppendHistory(ctx context.Context, entry *models.OrderShippingHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindVariantSnapshot(ctx context.Context, variantID uint64) (*VariantSnapshot, error) {
	var snapshot VariantSnapshot
	res := r.db.WithContext(ctx).
		Table("product_variants AS pv").
		Select(`pv.id AS variant_id, pv.product_id, p.name AS product_name, s.name AS size_name,
			pv.sku, pv.price, pv.cost_price`).
		Joins("JOIN products p ON p.id = pv.product_id").
		Joins("JOIN sizes s ON s.id = pv.size_id").
		Where("pv.id = ?", variantID).
		Limit(1).
		Scan(&snapshot)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &snapshot, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]OrderSummary, int64, error) {
	query := r.db.WithContext(ctx).Table("orders AS o")

	if filters.Status != nil {
		query = query.Where("o.status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("o.payment_status = ?", *filters.PaymentStatus)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"(o.order_number LIKE ? OR o.customer_name LIKE ? OR o.customer_phone LIKE ? OR o.guest_email LIKE ?)",
			like, like, like, like,
		)
	}
	if filters.DateFrom != nil {
		query = query.Where("o.created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("o.created_at < ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filters.Sort]
	if !ok {
		column = sortColumns["created_at"]
	}
	direction := "DESC"
	if strings.EqualFold(filters.Order, "asc") {
		direction = "ASC"
	}

	params = params.Normalize()
	var rows []OrderSummary
	err := query.
		Select(`o.id, o.order_number, o.customer_name, o.customer_phone, o.guest_email, o.user_id,
			o.status, o.payment_status, o.currency, o.total_amount, o.created_at,
			(SELECT COALESCE(SUM(oi.quantity), 0) FROM order_items oi WHERE oi.order_id = o.id) AS item_count`).
		Order(column + " " + direction).
		Order("o.id " + direction).
		Limit(params.Limit).
		Offset(params.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindDetail loads the aggregate with every child collection in a stable order.
func (r *repository) FindDetail(ctx context.Context, id uint64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", orderBy("id ASC")).
		Preload("Taxes", orderBy("sort_order ASC, id ASC")).
		Preload("Discounts", orderBy("sort_order ASC, id ASC")).
		Preload("Payments", orderBy("id ASC")).
		Preload("Shipping").
		Preload("History", orderBy("created_at ASC, id ASC")).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func orderBy(expr string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(expr)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
