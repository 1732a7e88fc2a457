package orders

import (
	"time"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	"github.com/denimhub/denimhub-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// TransitionInput moves an order to a new lifecycle status.
type TransitionInput struct {
	OrderID uint64
	Status  string
	Notes   string
	Actor   activitylog.Actor
}

type TransitionResult struct {
	ID             uint64            `json:"id"`
	Status         enums.OrderStatus `json:"status"`
	PreviousStatus enums.OrderStatus `json:"previous_status"`
}

// PaymentStatusInput records the outcome of an offline payment.
type PaymentStatusInput struct {
	OrderID       uint64
	PaymentStatus string
	Notes         string
	Actor         activitylog.Actor
}

type PaymentStatusResult struct {
	ID                    uint64              `json:"id"`
	PaymentStatus         enums.PaymentStatus `json:"payment_status"`
	PreviousPaymentStatus enums.PaymentStatus `json:"previous_payment_status"`
}

// TrackingInput attaches a courier tracking number and marks the order shipped.
type TrackingInput struct {
	OrderID        uint64
	TrackingNumber string
	ShippingNotes  string
	Actor          activitylog.Actor
}

type TrackingResult struct {
	ID             uint64            `json:"id"`
	Status         enums.OrderStatus `json:"status"`
	TrackingNumber string            `json:"tracking_number"`
}

// ChargeLine is a named tax or discount amount on a manual order.
type ChargeLine struct {
	Description string          `json:"description" validate:"required,max=255"`
	Amount      decimal.Decimal `json:"amount"`
}

// ManualOrderItem is one cart line. Price falls back to the variant price when omitted.
type ManualOrderItem struct {
	VariantID uint64           `json:"variant_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// ManualOrderInput is the admin-entered cart for an offline sale.
type ManualOrderInput struct {
	CustomerName       string            `json:"customer_name" validate:"required,max=255"`
	CustomerPhone      string            `json:"customer_phone" validate:"required,max=32"`
	CustomerEmail      string            `json:"customer_email,omitempty" validate:"omitempty,email"`
	CreateNewUser      bool              `json:"create_new_user"`
	Password           string            `json:"password,omitempty" validate:"omitempty,min=8"`
	UserID             *uint64           `json:"user_id,omitempty"`
	ShippingAddress    string            `json:"shipping_address" validate:"required"`
	ShippingCity       string            `json:"shipping_city,omitempty"`
	ShippingProvince   string            `json:"shipping_province,omitempty"`
	ShippingPostalCode string            `json:"shipping_postal_code,omitempty"`
	ShippingCountry    string            `json:"shipping_country,omitempty"`
	Courier            string            `json:"courier,omitempty"`
	ShippingCost       decimal.Decimal   `json:"shipping_cost"`
	ExchangeRate       *decimal.Decimal  `json:"exchange_rate,omitempty"`
	DiscountCode       *string           `json:"discount_code,omitempty"`
	PaymentMethod      string            `json:"payment_method,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	Items              []ManualOrderItem `json:"items" validate:"required,min=1,dive"`
	Taxes              []ChargeLine      `json:"taxes,omitempty" validate:"dive"`
	Discounts          []ChargeLine      `json:"discounts,omitempty" validate:"dive"`
}

// MissingFields lists the required fields left blank, in payload order.
func (in ManualOrderInput) MissingFields() []string {
	missing := []string{}
	if isBlank(in.CustomerName) {
		missing = append(missing, "customer_name")
	}
	if isBlank(in.CustomerPhone) {
		missing = append(missing, "customer_phone")
	}
	if isBlank(in.ShippingAddress) {
		missing = append(missing, "shipping_address")
	}
	if len(in.Items) == 0 {
		missing = append(missing, "items")
	}
	return missing
}

type ManualOrderResult struct {
	ID          uint64 `json:"id"`
	OrderNumber string `json:"order_number"`
}

// Totals is the monetary breakdown of an order.
type Totals struct {
	Subtotal      decimal.Decimal
	ShippingCost  decimal.Decimal
	TaxAmount     decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
}

// ListFilters narrows the admin order list.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	Search        string
	DateFrom      *time.Time
	DateTo        *time.Time
	Sort          string
	Order         string
}

// OrderSummary is one row of the admin order list.
type OrderSummary struct {
	ID            uint64              `json:"id"`
	OrderNumber   string              `json:"order_number"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	GuestEmail    *string             `json:"guest_email,omitempty"`
	UserID        *uint64             `json:"user_id,omitempty"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Currency      enums.Currency      `json:"currency"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	ItemCount     int                 `json:"item_count"`
	CreatedAt     time.Time           `json:"created_at"`
}

type OrderList struct {
	Orders     []OrderSummary   `json:"orders"`
	Pagination types.Pagination `json:"-"`
}

// OrderDetail is the full admin view of an order.
type OrderDetail struct {
	ID                   uint64              `json:"id"`
	OrderNumber          string              `json:"order_number"`
	UniqueToken          string              `json:"unique_token"`
	UserID               *uint64             `json:"user_id,omitempty"`
	GuestEmail           *string             `json:"guest_email,omitempty"`
	CustomerName         string              `json:"customer_name"`
	CustomerPhone        string              `json:"customer_phone"`
	Status               enums.OrderStatus   `json:"status"`
	PaymentStatus        enums.PaymentStatus `json:"payment_status"`
	Currency             enums.Currency      `json:"currency"`
	ExchangeRate         *decimal.Decimal    `json:"exchange_rate,omitempty"`
	Subtotal             decimal.Decimal     `json:"subtotal"`
	ShippingCost         decimal.Decimal     `json:"shipping_cost"`
	TaxAmount            decimal.Decimal     `json:"tax_amount"`
	DiscountAmount       decimal.Decimal     `json:"discount_amount"`
	MemberDiscountAmount decimal.Decimal     `json:"member_discount_amount"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	DiscountCode         *string             `json:"discount_code,omitempty"`
	Notes                string              `json:"notes,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
	ApprovedAt           *time.Time          `json:"approved_at,omitempty"`
	Items                []OrderItem         `json:"items"`
	Taxes                []OrderCharge       `json:"taxes"`
	Discounts            []OrderCharge       `json:"discounts"`
	Payment              *Payment            `json:"payment,omitempty"`
	Shipping             *Shipping           `json:"shipping,omitempty"`
	History              []HistoryEntry      `json:"history"`
}

type OrderItem struct {
	ID               uint64          `json:"id"`
	ProductVariantID *uint64         `json:"product_variant_id,omitempty"`
	ProductID        *uint64         `json:"product_id,omitempty"`
	ProductName      string          `json:"product_name"`
	SizeName         string          `json:"size_name"`
	ProductSKU       string          `json:"product_sku"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

type OrderCharge struct {
	ID          uint64          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	SortOrder   int             `json:"sort_order"`
}

type Payment struct {
	ID     uint64              `json:"id"`
	Method string              `json:"method"`
	Amount decimal.Decimal     `json:"amount"`
	Status enums.PaymentStatus `json:"status"`
	PaidAt *time.Time          `json:"paid_at,omitempty"`
}

type Shipping struct {
	RecipientName  string     `json:"recipient_name"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address"`
	City           string     `json:"city,omitempty"`
	Province       string     `json:"province,omitempty"`
	PostalCode     string     `json:"postal_code,omitempty"`
	Country        string     `json:"country,omitempty"`
	Courier        string     `json:"courier,omitempty"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
	ShippingNotes  *string    `json:"shipping_notes,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

type HistoryEntry struct {
	ID          uint64            `json:"id"`
	Status      enums.OrderStatus `json:"status"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Location    string            `json:"location,omitempty"`
	CreatedBy   *uint64           `json:"created_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// VariantSnapshot is the catalog data copied onto an order item.
type VariantSnapshot struct {
	VariantID   uint64
	ProductID   uint64
	ProductName string
	SizeName    string
	SKU         string
	Price       decimal.Decimal
	CostPrice   decimal.Decimal
}
