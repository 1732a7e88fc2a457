package inventory

import (
	"time"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	"github.com/denimhub/denimhub-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// OverviewFilters narrows the variant grid.
type OverviewFilters struct {
	WarehouseID *uint64
	Search      string
	LowStock    bool
}

// VariantStock is one row of the inventory grid.
type VariantStock struct {
	VariantID     uint64          `json:"variant_id"`
	SKU           string          `json:"sku"`
	ProductID     uint64          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SizeName      string          `json:"size_name"`
	WarehouseID   uint64          `json:"warehouse_id"`
	WarehouseCode string          `json:"warehouse_code"`
	WarehouseName string          `json:"warehouse_name"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinimumStock  int             `json:"minimum_stock"`
	IsLowStock    bool            `json:"is_low_stock" gorm:"-"`
}

type VariantStockList struct {
	Variants   []VariantStock   `json:"variants"`
	Pagination types.Pagination `json:"-"`
}

// MovementFilters narrows the movement ledger listing.
type MovementFilters struct {
	VariantID     *uint64
	Type          enums.MovementType
	ReferenceType enums.MovementReference
	DateFrom      *time.Time
	DateTo        *time.Time
}

type Movement struct {
	ID               uint64                  `json:"id"`
	ProductVariantID uint64                  `json:"product_variant_id"`
	SKU              string                  `json:"sku"`
	ProductName      string                  `json:"product_name"`
	SizeName         string                  `json:"size_name"`
	Type             enums.MovementType      `json:"type"`
	Quantity         int                     `json:"quantity"`
	ReferenceType    enums.MovementReference `json:"reference_type"`
	ReferenceID      *uint64                 `json:"reference_id,omitempty"`
	Notes            string                  `json:"notes,omitempty"`
	CreatedBy        *uint64                 `json:"created_by,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

type MovementList struct {
	Movements  []Movement       `json:"movements"`
	Pagination types.Pagination `json:"-"`
}

// AdjustmentInput is a manual stock correction entered by an admin.
type AdjustmentInput struct {
	VariantID uint64
	Type      enums.MovementType
	Quantity  int
	Notes     string
	Actor     activitylog.Actor
}

type AdjustmentResult struct {
	VariantID     uint64             `json:"variant_id"`
	Type          enums.MovementType `json:"type"`
	Quantity      int                `json:"quantity"`
	StockQuantity int                `json:"stock_quantity"`
}
