package models

import (
	"time"

	"github.com/denimhub/denimhub-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ExchangeRate is soft-deleted through IsActive and never removed.
type ExchangeRate struct {
	ID           uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	CurrencyFrom enums.Currency  `gorm:"column:currency_from;type:varchar(3);not null;uniqueIndex:idx_exchange_rates_pair"`
	CurrencyTo   enums.Currency  `gorm:"column:currency_to;type:varchar(3);not null;uniqueIndex:idx_exchange_rates_pair"`
	Rate         decimal.Decimal `gorm:"column:rate;type:decimal(18,6);not null"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	UpdatedBy    *uint64         `gorm:"column:updated_by"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExchangeRate) TableName() string { return "exchange_rates" }

type ExchangeRateLog struct {
	ID             uint64           `gorm:"column:id;primaryKey;autoIncrement"`
	ExchangeRateID uint64           `gorm:"column:exchange_rate_id;not null;index"`
	OldRate        *decimal.Decimal `gorm:"column:old_rate;type:decimal(18,6)"`
	NewRate        decimal.Decimal  `gorm:"column:new_rate;type:decimal(18,6);not null"`
	Reason         string           `gorm:"column:reason;type:varchar(255)"`
	ChangedBy      *uint64          `gorm:"column:changed_by"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (ExchangeRateLog) TableName() string { return "exchange_rate_logs" }
