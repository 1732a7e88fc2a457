package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon usage_count is incremented at checkout and released on cancellation.
type Coupon struct {
	ID            uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	Code          string          `gorm:"column:code;type:varchar(64);not null;uniqueIndex"`
	DiscountType  string          `gorm:"column:discount_type;type:varchar(16);not null;default:'fixed'"`
	DiscountValue decimal.Decimal `gorm:"column:discount_value;type:decimal(15,2);not null;default:0"`
	UsageLimit    *int            `gorm:"column:usage_limit"`
	UsageCount    int             `gorm:"column:usage_count;not null;default:0"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	ValidFrom     *time.Time      `gorm:"column:valid_from"`
	ValidUntil    *time.Time      `gorm:"column:valid_until"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Coupon) TableName() string { return "coupons" }

type CouponUsage struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	CouponID  uint64    `gorm:"column:coupon_id;not null;index"`
	OrderID   uint64    `gorm:"column:order_id;not null;index"`
	UserID    *uint64   `gorm:"column:user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CouponUsage) TableName() string { return "coupon_usages" }

type Discount struct {
	ID         uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	Code       string          `gorm:"column:code;type:varchar(64);not null;uniqueIndex"`
	Name       string          `gorm:"column:name;type:varchar(255)"`
	Percentage decimal.Decimal `gorm:"column:percentage;type:decimal(5,2);not null;default:0"`
	UsageCount int             `gorm:"column:usage_count;not null;default:0"`
	IsActive   bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Discount) TableName() string { return "discounts" }
