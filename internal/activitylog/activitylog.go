package activitylog

import (
	"context"
	"unicode/utf8"

	"github.com/denimhub/denimhub-backend/pkg/besteffort"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	"github.com/denimhub/denimhub-backend/pkg/logger"
)

const (
	ActionCreateManualOrder   = "create_manual_order"
	ActionUpdateOrderStatus   = "update_order_status"
	ActionUpdatePaymentStatus = "update_payment_status"
	ActionUpdateTracking      = "update_order_tracking"
	ActionInventoryAdjustment = "inventory_adjustment"
	ActionUpsertExchangeRate  = "update_exchange_rate"
	ActionDeleteExchangeRate  = "delete_exchange_rate"
)

const (
	EntityOrder          = "order"
	EntityProductVariant = "product_variant"
	EntityExchangeRate   = "exchange_rate"
)

// Actor identifies who performed an admin action and from where.
type Actor struct {
	UserID    uint64
	Role      enums.UserRole
	IPAddress string
	UserAgent string
}

// UserIDPtr returns nil for anonymous actors so nullable author columns stay NULL.
func (a Actor) UserIDPtr() *uint64 {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// Entry is one activity log record before persistence.
type Entry struct {
	Actor       Actor
	Action      string
	EntityType  string
	EntityID    uint64
	Description string
}

// Recorder appends activity entries. Implementations never fail the caller.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type recorder struct {
	repo Repository
	logg *logger.Logger
}

// NewRecorder returns a best-effort recorder writing through repo.
func NewRecorder(repo Repository, logg *logger.Logger) Recorder {
	return &recorder{repo: repo, logg: logg}
}

func (r *recorder) Record(ctx context.Context, entry Entry) {
	besteffort.Run(ctx, r.logg, "activity_log", func(ctx context.Context) error {
		row := &models.ActivityLog{
			UserID:      entry.Actor.UserIDPtr(),
			Action:      entry.Action,
			EntityType:  entry.EntityType,
			Description: entry.Description,
			IPAddress:   entry.Actor.IPAddress,
			UserAgent:   truncate(entry.Actor.UserAgent, 512),
		}
		if entry.EntityID != 0 {
			id := entry.EntityID
			row.EntityID = &id
		}
		return r.repo.Create(ctx, row)
	})
}

// truncate keeps at most max characters of value; varchar limits count
// characters, and a cut rune would fail a strict utf8mb4 insert.
func truncate(value string, max int) string {
	if utf8.RuneCountInString(value) <= max {
		return value
	}
	count := 0
	for i := range value {
		if count == max {
			return value[:i]
		}
		count++
	}
	return value
}
