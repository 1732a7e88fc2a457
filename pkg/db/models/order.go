package models

import (
	"time"

	"github.com/denimhub/denimhub-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is the purchase header. Rows are never deleted; cancellation is a status.
type Order struct {
	ID                   uint64                 `gorm:"column:id;primaryKey;autoIncrement"`
	OrderNumber          string                 `gorm:"column:order_number;type:varchar(32);not null;uniqueIndex"`
	UniqueToken          string                 `gorm:"column:unique_token;type:varchar(64);not null;uniqueIndex"`
	UserID               *uint64                `gorm:"column:user_id;index"`
	GuestEmail           *string                `gorm:"column:guest_email;type:varchar(255)"`
	CustomerName         string                 `gorm:"column:customer_name;type:varchar(255);not null"`
	CustomerPhone        string                 `gorm:"column:customer_phone;type:varchar(32);not null"`
	Status               enums.OrderStatus      `gorm:"column:status;type:varchar(32);not null;default:'pending';index"`
	PaymentStatus        enums.PaymentStatus    `gorm:"column:payment_status;type:varchar(16);not null;default:'pending'"`
	Currency             enums.Currency         `gorm:"column:currency;type:varchar(3);not null;default:'IDR'"`
	ExchangeRate         *decimal.Decimal       `gorm:"column:exchange_rate;type:decimal(18,6)"`
	Subtotal             decimal.Decimal        `gorm:"column:subtotal;type:decimal(15,2);not null;default:0"`
	ShippingCost         decimal.Decimal        `gorm:"column:shipping_cost;type:decimal(15,2);not null;default:0"`
	TaxAmount            decimal.Decimal        `gorm:"column:tax_amount;type:decimal(15,2);not null;default:0"`
	DiscountAmount       decimal.Decimal        `gorm:"column:discount_amount;type:decimal(15,2);not null;default:0"`
	MemberDiscountAmount decimal.Decimal        `gorm:"column:member_discount_amount;type:decimal(15,2);not null;default:0"`
	TotalAmount          decimal.Decimal        `gorm:"column:total_amount;type:decimal(15,2);not null;default:0"`
	DiscountCode         *string                `gorm:"column:discount_code;type:varchar(64)"`
	Notes                string                 `gorm:"column:notes;type:text"`
	CreatedBy            *uint64                `gorm:"column:created_by"`
	Items                []OrderItem            `gorm:"foreignKey:OrderID"`
	Taxes                []OrderTax             `gorm:"foreignKey:OrderID"`
	Discounts            []OrderDiscount        `gorm:"foreignKey:OrderID"`
	Payments             []Payment              `gorm:"foreignKey:OrderID"`
	Shipping             *OrderShipping         `gorm:"foreignKey:OrderID"`
	History              []OrderShippingHistory `gorm:"foreignKey:OrderID"`
	CreatedAt            time.Time              `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt            time.Time              `gorm:"column:updated_at;autoUpdateTime"`
	ApprovedAt           *time.Time             `gorm:"column:approved_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots the variant's display fields at creation; ProductVariantID
// may dangle once the variant is removed from the catalog.
type OrderItem struct {
	ID               uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID          uint64          `gorm:"column:order_id;not null;index"`
	ProductVariantID *uint64         `gorm:"column:product_variant_id;index"`
	ProductID        *uint64         `gorm:"column:product_id"`
	ProductName      string          `gorm:"column:product_name;type:varchar(255);not null"`
	SizeName         string          `gorm:"column:size_name;type:varchar(32)"`
	ProductSKU       string          `gorm:"column:product_sku;type:varchar(64)"`
	Quantity         int             `gorm:"column:quantity;not null"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:decimal(15,2);not null"`
	UnitCost         decimal.Decimal `gorm:"column:unit_cost;type:decimal(15,2);not null;default:0"`
	Subtotal         decimal.Decimal `gorm:"column:subtotal;type:decimal(15,2);not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }

type OrderTax struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     uint64          `gorm:"column:order_id;not null;index"`
	Description string          `gorm:"column:description;type:varchar(255);not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(15,2);not null"`
	SortOrder   int             `gorm:"column:sort_order;not null;default:0"`
}

func (OrderTax) TableName() string { return "order_taxes" }

type OrderDiscount struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     uint64          `gorm:"column:order_id;not null;index"`
	Description string          `gorm:"column:description;type:varchar(255);not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(15,2);not null"`
	SortOrder   int             `gorm:"column:sort_order;not null;default:0"`
}

func (OrderDiscount) TableName() string { return "order_discounts" }

type Payment struct {
	ID        uint64              `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uint64              `gorm:"column:order_id;not null;index"`
	Method    string              `gorm:"column:method;type:varchar(32);not null;default:'manual'"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:decimal(15,2);not null"`
	Status    enums.PaymentStatus `gorm:"column:status;type:varchar(16);not null;default:'pending'"`
	PaidAt    *time.Time          `gorm:"column:paid_at"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Payment) TableName() string { return "payments" }

// OrderShipping is the 1:1 delivery profile of an order.
type OrderShipping struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID        uint64     `gorm:"column:order_id;not null;uniqueIndex"`
	RecipientName  string     `gorm:"column:recipient_name;type:varchar(255);not null"`
	Phone          string     `gorm:"column:phone;type:varchar(32);not null"`
	Address        string     `gorm:"column:address;type:text;not null"`
	City           string     `gorm:"column:city;type:varchar(128)"`
	Province       string     `gorm:"column:province;type:varchar(128)"`
	PostalCode     string     `gorm:"column:postal_code;type:varchar(16)"`
	Country        string     `gorm:"column:country;type:varchar(64)"`
	Courier        string     `gorm:"column:courier;type:varchar(64)"`
	TrackingNumber *string    `gorm:"column:tracking_number;type:varchar(128)"`
	ShippingNotes  *string    `gorm:"column:shipping_notes;type:text"`
	ShippedAt      *time.Time `gorm:"column:shipped_at"`
	DeliveredAt    *time.Time `gorm:"column:delivered_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderShipping) TableName() string { return "order_shipping" }

// OrderShippingHistory is the append-only audit trail of status transitions.
type OrderShippingHistory struct {
	ID          uint64            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     uint64            `gorm:"column:order_id;not null;index"`
	Status      enums.OrderStatus `gorm:"column:status;type:varchar(32);not null"`
	Title       string            `gorm:"column:title;type:varchar(255);not null"`
	Description string            `gorm:"column:description;type:text"`
	Location    string            `gorm:"column:location;type:varchar(255)"`
	CreatedBy   *uint64           `gorm:"column:created_by"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (OrderShippingHistory) TableName() string { return "order_shipping_history" }
