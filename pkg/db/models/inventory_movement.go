package models

import (
	"time"

	"github.com/denimhub/denimhub-backend/pkg/enums"
)

// InventoryMovement is the immutable ledger entry written with every stock change.
type InventoryMovement struct {
	ID               uint64                  `gorm:"column:id;primaryKey;autoIncrement"`
	ProductVariantID uint64                  `gorm:"column:product_variant_id;not null;index"`
	Type             enums.MovementType      `gorm:"column:type;type:varchar(8);not null"`
	Quantity         int                     `gorm:"column:quantity;not null"`
	ReferenceType    enums.MovementReference `gorm:"column:reference_type;type:varchar(32);not null;index:idx_inventory_movements_reference"`
	ReferenceID      *uint64                 `gorm:"column:reference_id;index:idx_inventory_movements_reference"`
	Notes            string                  `gorm:"column:notes;type:text"`
	CreatedBy        *uint64                 `gorm:"column:created_by"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime;index"`
}

func (InventoryMovement) TableName() string { return "inventory_movements" }
