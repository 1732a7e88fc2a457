// Package tracking serves the customer-facing order status page keyed by the
// order's unguessable token.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const tokenLength = 64

// OrderStatus is the public projection. It carries no internal ids, costs or the token.
type OrderStatus struct {
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	StatusTitle   string              `json:"status_title"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Currency      enums.Currency      `json:"currency"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []Item              `json:"items"`
	Shipping      *Shipping           `json:"shipping,omitempty"`
	History       []Event             `json:"history"`
}

type Item struct {
	ProductName string          `json:"product_name"`
	SizeName    string          `json:"size_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Shipping struct {
	RecipientName  string     `json:"recipient_name"`
	City           string     `json:"city,omitempty"`
	Courier        string     `json:"courier,omitempty"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

type Event struct {
	Status      enums.OrderStatus `json:"status"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Location    string            `json:"location,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type Service interface {
	Lookup(ctx context.Context, token string) (*OrderStatus, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tracking repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Lookup(ctx context.Context, token string) (*OrderStatus, error) {
	token, err := normalizeToken(token)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toOrderStatus(order), nil
}

func normalizeToken(token string) (string, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if len(token) != tokenLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid tracking token")
	}
	for _, r := range token {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid tracking token")
		}
	}
	return token, nil
}

func toOrderStatus(order *models.Order) *OrderStatus {
	out := &OrderStatus{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		StatusTitle:   order.Status.Title(),
		PaymentStatus: order.PaymentStatus,
		Currency:      order.Currency,
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt,
		Items:         make([]Item, 0, len(order.Items)),
		History:       make([]Event, 0, len(order.History)),
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, Item{
			ProductName: item.ProductName,
			SizeName:    item.SizeName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	if ship := order.Shipping; ship != nil {
		out.Shipping = &Shipping{
			RecipientName:  ship.RecipientName,
			City:           ship.City,
			Courier:        ship.Courier,
			TrackingNumber: ship.TrackingNumber,
			ShippedAt:      ship.ShippedAt,
			DeliveredAt:    ship.DeliveredAt,
		}
	}
	for _, entry := range order.History {
		out.History = append(out.History, Event{
			Status:      entry.Status,
			Title:       entry.Title,
			Description: entry.Description,
			Location:    entry.Location,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return out
}
