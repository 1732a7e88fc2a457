package enums

import "fmt"

// OrderStatus tracks the fulfilment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusInTransit      OrderStatus = "in_transit"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Customer-facing history titles.
var orderStatusTitles = map[OrderStatus]string{
	OrderStatusPending:        "Menunggu Konfirmasi",
	OrderStatusConfirmed:      "Pesanan Dikonfirmasi",
	OrderStatusProcessing:     "Pesanan Diproses",
	OrderStatusPacked:         "Pesanan Dikemas",
	OrderStatusShipped:        "Pesanan Dikirim",
	OrderStatusInTransit:      "Dalam Perjalanan",
	OrderStatusOutForDelivery: "Sedang Diantar",
	OrderStatusDelivered:      "Pesanan Diterima",
	OrderStatusCancelled:      "Pesanan Dibatalkan",
}

// ManualOrderCreatedTitle seeds the history of orders entered by an admin.
const ManualOrderCreatedTitle = "Pesanan Manual Dibuat"

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Title returns the history title shown to customers, falling back to the raw value.
func (s OrderStatus) Title() string {
	if title, ok := orderStatusTitles[s]; ok {
		return title
	}
	return string(s)
}

// IsTerminal reports whether no further transition may leave this status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled
}

// HasShipped reports whether the parcel has left the warehouse.
func (s OrderStatus) HasShipped() bool {
	switch s {
	case OrderStatusShipped, OrderStatusInTransit, OrderStatusOutForDelivery, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatuses lists every known status in lifecycle order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}
