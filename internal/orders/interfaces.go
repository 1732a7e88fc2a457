package orders

import (
	"context"

	"github.com/denimhub/denimhub-backend/internal/inventory"
	"github.com/denimhub/denimhub-backend/internal/users"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the order aggregate.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LockOrder(ctx context.Context, id uint64) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uint64, updates map[string]any) error
	CreateOrder(ctx context.Context, order *models.Order) error
	OrderNumberExists(ctx context.Context, number string) (bool, error)
	FindItems(ctx context.Context, orderID uint64) ([]models.OrderItem, error)
	CreateItem(ctx context.Context, item *models.OrderItem) error
	CreateTax(ctx context.Context, tax *models.OrderTax) error
	CreateDiscount(ctx context.Context, discount *models.OrderDiscount) error
	CreatePayment(ctx context.Context, payment *models.Payment) error
	UpdatePayments(ctx context.Context, orderID uint64, updates map[string]any) error
	CreateShipping(ctx context.Context, shipping *models.OrderShipping) error
	FindShipping(ctx context.Context, orderID uint64) (*models.OrderShipping, error)
	UpdateShipping(ctx context.Context, orderID uint64, updates map[string]any) error
	AppendHistory(ctx context.Context, entry *models.OrderShippingHistory) error
	FindVariantSnapshot(ctx context.Context, variantID uint64) (*VariantSnapshot, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]OrderSummary, int64, error)
	FindDetail(ctx context.Context, id uint64) (*models.Order, error)
}

// StockMutator moves variant stock and records the movement on the caller's transaction.
type StockMutator interface {
	Deduct(ctx context.Context, tx *gorm.DB, change inventory.StockChange) error
	Restock(ctx context.Context, tx *gorm.DB, change inventory.StockChange) error
}

// CouponUsage consumes a discount code when an order is placed and gives it back
// when the order is cancelled. RecordUsage reports false for a code it could not
// count; the order keeps the code either way.
type CouponUsage interface {
	RecordUsage(ctx context.Context, tx *gorm.DB, code string, orderID uint64, userID *uint64) (bool, error)
	ReleaseUsage(ctx context.Context, tx *gorm.DB, code string, orderID uint64) error
}

// CustomerProvisioner resolves the owner of a manual order.
type CustomerProvisioner interface {
	Resolve(ctx context.Context, tx *gorm.DB, input users.CustomerInput) (users.Customer, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderMetrics interface {
	IncTransition(from, to string)
	IncManualOrder()
}
