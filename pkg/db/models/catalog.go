package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string          `gorm:"column:name;type:varchar(255);not null"`
	SKU       string          `gorm:"column:sku;type:varchar(64);not null;index"`
	BasePrice decimal.Decimal `gorm:"column:base_price;type:decimal(15,2);not null;default:0"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

type Size struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string `gorm:"column:name;type:varchar(32);not null"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0"`
}

func (Size) TableName() string { return "sizes" }

type Warehouse struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Code     string `gorm:"column:code;type:varchar(32);not null;uniqueIndex"`
	Name     string `gorm:"column:name;type:varchar(255);not null"`
	IsActive bool   `gorm:"column:is_active;not null;default:true"`
}

func (Warehouse) TableName() string { return "warehouses" }

// ProductVariant is one (product, size, warehouse) stock-keeping unit.
// StockQuantity only changes through single-statement counter updates.
type ProductVariant struct {
	ID            uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID     uint64          `gorm:"column:product_id;not null;index"`
	SizeID        uint64          `gorm:"column:size_id;not null"`
	WarehouseID   uint64          `gorm:"column:warehouse_id;not null;index"`
	SKU           string          `gorm:"column:sku;type:varchar(64);not null"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(15,2);not null;default:0"`
	CostPrice     decimal.Decimal `gorm:"column:cost_price;type:decimal(15,2);not null;default:0"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	MinimumStock  int             `gorm:"column:minimum_stock;not null;default:0"`
	Product       *Product        `gorm:"foreignKey:ProductID"`
	Size          *Size           `gorm:"foreignKey:SizeID"`
	Warehouse     *Warehouse      `gorm:"foreignKey:WarehouseID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductVariant) TableName() string { return "product_variants" }
