package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a guarded decrement would go below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// StockChange describes one counter mutation and the movement that records it.
type StockChange struct {
	VariantID   uint64
	Quantity    int
	Reference   enums.MovementReference
	ReferenceID *uint64
	Notes       string
	CreatedBy   *uint64
}

// StockOptions configure the stock mutator.
type StockOptions struct {
	AllowNegative bool
	Logger        *logger.Logger
}

// Stock mutates variant counters. Every change is a single UPDATE statement
// followed by an inventory_movements insert on the same transaction.
type Stock struct {
	allowNegative bool
	logg          *logger.Logger
}

func NewStock(opts StockOptions) *Stock {
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Stock{allowNegative: opts.AllowNegative, logg: logg}
}

// Deduct removes stock for an order line. When negative stock is disallowed the
// update is conditional and a shortfall fails with a validation error.
func (s *Stock) Deduct(ctx context.Context, tx *gorm.DB, change StockChange) error {
	return s.decrement(ctx, tx, change, !s.allowNegative)
}

// Remove is Deduct that never allows the counter below zero, used by manual adjustments.
func (s *Stock) Remove(ctx context.Context, tx *gorm.DB, change StockChange) error {
	return s.decrement(ctx, tx, change, true)
}

// Restock adds stock back. A variant deleted since the order was placed is
// skipped with a warning; its movement would reference a missing row.
func (s *Stock) Restock(ctx context.Context, tx *gorm.DB, change StockChange) error {
	if err := validateChange(change); err != nil {
		return err
	}

	res := tx.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", change.VariantID).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity + ?", change.Quantity),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "increment stock")
	}
	if res.RowsAffected == 0 {
		logCtx := s.logg.WithField(ctx, "variant_id", change.VariantID)
		s.logg.Warn(logCtx, "restock skipped: variant no longer exists")
		return nil
	}

	return recordMovement(ctx, tx, enums.MovementTypeIn, change)
}

func (s *Stock) decrement(ctx context.Context, tx *gorm.DB, change StockChange, guarded bool) error {
	if err := validateChange(change); err != nil {
		return err
	}

	query := tx.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", change.VariantID)
	if guarded {
		query = query.Where("stock_quantity >= ?", change.Quantity)
	}
	res := query.Updates(map[string]any{
		"stock_quantity": gorm.Expr("stock_quantity - ?", change.Quantity),
		"updated_at":     time.Now().UTC(),
	})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.WithContext(ctx).Model(&models.ProductVariant{}).Where("id = ?", change.VariantID).Count(&count).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check variant")
		}
		if count == 0 {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "product variant %d not found", change.VariantID)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{"variant_id": change.VariantID, "requested": change.Quantity})
	}

	return recordMovement(ctx, tx, enums.MovementTypeOut, change)
}

func recordMovement(ctx context.Context, tx *gorm.DB, kind enums.MovementType, change StockChange) error {
	movement := &models.InventoryMovement{
		ProductVariantID: change.VariantID,
		Type:             kind,
		Quantity:         change.Quantity,
		ReferenceType:    change.Reference,
		ReferenceID:      change.ReferenceID,
		Notes:            change.Notes,
		CreatedBy:        change.CreatedBy,
	}
	if err := tx.WithContext(ctx).Create(movement).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record inventory movement")
	}
	return nil
}

func validateChange(change StockChange) error {
	if change.VariantID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant id required")
	}
	if change.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if !change.Reference.IsValid() {
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown movement reference %q", change.Reference))
	}
	return nil
}
