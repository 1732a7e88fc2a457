package inventory

import (
	"context"
	"strings"

	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository reads the variant grid and movement ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListVariants(ctx context.Context, filters OverviewFilters, params pagination.Params) ([]VariantStock, int64, error)
	ListMovements(ctx context.Context, filters MovementFilters, params pagination.Params) ([]Movement, int64, error)
	FindVariant(ctx context.Context, id uint64) (*models.ProductVariant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListVariants(ctx context.Context, filters OverviewFilters, params pagination.Params) ([]VariantStock, int64, error) {
	query := r.db.WithContext(ctx).
		Table("product_variants AS pv").
		Joins("JOIN products p ON p.id = pv.product_id").
		Joins("JOIN sizes s ON s.id = pv.size_id").
		Joins("JOIN warehouses w ON w.id = pv.warehouse_id")

	if filters.WarehouseID != nil {
		query = query.Where("pv.warehouse_id = ?", *filters.WarehouseID)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("(p.name LIKE ? OR pv.sku LIKE ?)", like, like)
	}
	if filters.LowStock {
		query = query.Where("pv.stock_quantity <= pv.minimum_stock")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params = params.Normalize()
	var rows []VariantStock
	err := query.
		Select(`pv.id AS variant_id, pv.sku, pv.product_id, p.name AS product_name, s.name AS size_name,
			pv.warehouse_id, w.code AS warehouse_code, w.name AS warehouse_name,
			pv.price, pv.cost_price, pv.stock_quantity, pv.minimum_stock`).
		Order("p.name ASC").
		Order("s.sort_order ASC").
		Order("pv.id ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].IsLowStock = rows[i].StockQuantity <= rows[i].MinimumStock
	}
	return rows, total, nil
}

func (r *repository) ListMovements(ctx context.Context, filters MovementFilters, params pagination.Params) ([]Movement, int64, error) {
	query := r.db.WithContext(ctx).
		Table("inventory_movements AS im").
		Joins("LEFT JOIN product_variants pv ON pv.id = im.product_variant_id").
		Joins("LEFT JOIN products p ON p.id = pv.product_id").
		Joins("LEFT JOIN sizes s ON s.id = pv.size_id")

	if filters.VariantID != nil {
		query = query.Where("im.product_variant_id = ?", *filters.VariantID)
	}
	if filters.Type != "" {
		query = query.Where("im.type = ?", filters.Type)
	}
	if filters.ReferenceType != "" {
		query = query.Where("im.reference_type = ?", filters.ReferenceType)
	}
	if filters.DateFrom != nil {
		query = query.Where("im.created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("im.created_at < ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params = params.Normalize()
	var rows []Movement
	err := query.
		Select(`im.id, im.product_variant_id, COALESCE(pv.sku, '') AS sku, COALESCE(p.name, '') AS product_name,
			COALESCE(s.name, '') AS size_name, im.type, im.quantity, im.reference_type, im.reference_id,
			im.notes, im.created_by, im.created_at`).
		Order("im.created_at DESC").
		Order("im.id DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) FindVariant(ctx context.Context, id uint64) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}
