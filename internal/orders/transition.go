package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/internal/inventory"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"gorm.io/gorm"
)

// canTransition reports whether an order in from may move to to. The lifecycle is
// non-linear: admins may skip or revisit steps. Only two moves are
// refused: leaving cancelled, and cancelling a parcel that already left the warehouse.
func canTransition(from, to enums.OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == enums.OrderStatusCancelled && from.HasShipped() {
		return false
	}
	return true
}

type transitionStep struct {
	order       *models.Order
	to          enums.OrderStatus
	description string
	actor       activitylog.Actor
	now         time.Time
}

// applyTransition performs every write of a status change on tx. The caller holds
// the order row lock.
func (s *service) applyTransition(ctx context.Context, tx *gorm.DB, step transitionStep) error {
	order := step.order
	from := order.Status
	if !canTransition(from, step.to) {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot change order status from %s to %s", from, step.to).
			WithDetails(map[string]any{"from": from, "to": step.to})
	}

	repo := s.repo.WithTx(tx)
	updates := map[string]any{
		"status":     step.to,
		"updated_at": step.now,
	}
	if step.to == enums.OrderStatusConfirmed && order.ApprovedAt == nil {
		updates["approved_at"] = step.now
	}
	if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	history := &models.OrderShippingHistory{
		OrderID:     order.ID,
		Status:      step.to,
		Title:       step.to.Title(),
		Description: step.description,
		CreatedBy:   step.actor.UserIDPtr(),
	}
	if err := repo.AppendHistory(ctx, history); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append shipping history")
	}

	switch step.to {
	case enums.OrderStatusShipped:
		if err := repo.UpdateShipping(ctx, order.ID, map[string]any{"shipped_at": step.now}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamp shipped_at")
		}
	case enums.OrderStatusDelivered:
		if err := repo.UpdateShipping(ctx, order.ID, map[string]any{"delivered_at": step.now}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamp delivered_at")
		}
	case enums.OrderStatusCancelled:
		if err := s.reverseOrder(ctx, tx, order, step.actor); err != nil {
			return err
		}
	}

	order.Status = step.to
	return nil
}

// reverseOrder returns every item's quantity to stock and releases the discount code.
func (s *service) reverseOrder(ctx context.Context, tx *gorm.DB, order *models.Order, actor activitylog.Actor) error {
	items, err := s.repo.WithTx(tx).FindItems(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}

	orderID := order.ID
	for _, item := range items {
		if item.ProductVariantID == nil || item.Quantity <= 0 {
			continue
		}
		change := inventory.StockChange{
			VariantID:   *item.ProductVariantID,
			Quantity:    item.Quantity,
			Reference:   enums.MovementReferenceOrderCancelled,
			ReferenceID: &orderID,
			Notes:       fmt.Sprintf("Order %s cancelled", order.OrderNumber),
			CreatedBy:   actor.UserIDPtr(),
		}
		if err := s.stock.Restock(ctx, tx, change); err != nil {
			return err
		}
	}

	if order.DiscountCode != nil && *order.DiscountCode != "" {
		if err := s.coupons.ReleaseUsage(ctx, tx, *order.DiscountCode, order.ID); err != nil {
			return err
		}
	}
	return nil
}
