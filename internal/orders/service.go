package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/logger"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"github.com/denimhub/denimhub-backend/pkg/sanitize"
	"gorm.io/gorm"
)

// Service defines the admin order operations.
type Service interface {
	TransitionStatus(ctx context.Context, input TransitionInput) (*TransitionResult, error)
	UpdatePaymentStatus(ctx context.Context, input PaymentStatusInput) (*PaymentStatusResult, error)
	UpdateTracking(ctx context.Context, input TrackingInput) (*TrackingResult, error)
	CreateManualOrder(ctx context.Context, input ManualOrderInput, actor activitylog.Actor) (*ManualOrderResult, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error)
	Detail(ctx context.Context, id uint64) (*OrderDetail, error)
}

// ServiceParams wires the order service. Metrics and Logger are optional.
type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Stock     StockMutator
	Coupons   CouponUsage
	Customers CustomerProvisioner
	Activity  activitylog.Recorder
	Metrics   orderMetrics
	Logger    *logger.Logger
	Clock     func() time.Time
}

type service struct {
	repo      Repository
	tx        txRunner
	stock     StockMutator
	coupons   CouponUsage
	customers CustomerProvisioner
	activity  activitylog.Recorder
	metrics   orderMetrics
	logg      *logger.Logger
	now       func() time.Time
}

type noopMetrics struct{}

func (noopMetrics) IncTransition(string, string) {}
func (noopMetrics) IncManualOrder() {}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock mutator required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon usage tracker required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer provisioner required")
	}
	if params.Activity == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	svc := &service{
		repo:      params.Repo,
		tx:        params.Tx,
		stock:     params.Stock,
		coupons:   params.Coupons,
		customers: params.Customers,
		activity:  params.Activity,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       params.Clock,
	}
	if svc.metrics == nil {
		svc.metrics = noopMetrics{}
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	return svc, nil
}

func (s *service) TransitionStatus(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if input.OrderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	to, err := enums.ParseOrderStatus(strings.TrimSpace(input.Status))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	var result TransitionResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.lockOrder(ctx, tx, input.OrderID)
		if err != nil {
			return err
		}
		result.ID = order.ID
		result.PreviousStatus = order.Status
		if err := s.applyTransition(ctx, tx, transitionStep{
			order:       order,
			to:          to,
			description: sanitize.Text(input.Notes),
			actor:       input.Actor,
			now:         s.now(),
		}); err != nil {
			return err
		}
		result.Status = order.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(result.PreviousStatus), string(result.Status))
	logCtx := s.logg.WithOrderID(ctx, result.ID)
	s.logg.Info(logCtx, fmt.Sprintf("order status %s -> %s", result.PreviousStatus, result.Status))
	s.activity.Record(ctx, activitylog.Entry{
		Actor:       input.Actor,
		Action:      activitylog.ActionUpdateOrderStatus,
		EntityType:  activitylog.EntityOrder,
		EntityID:    result.ID,
		Description: fmt.Sprintf("Order status changed from %s to %s", result.PreviousStatus, result.Status),
	})
	return &result, nil
}

// UpdatePaymentStatus records an offline payment outcome. It does not touch the
// shipping history.
func (s *service) UpdatePaymentStatus(ctx context.Context, input PaymentStatusInput) (*PaymentStatusResult, error) {
	if input.OrderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	status, err := enums.ParsePaymentStatus(strings.TrimSpace(input.PaymentStatus))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	var result PaymentStatusResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.lockOrder(ctx, tx, input.OrderID)
		if err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		now := s.now()

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"payment_status": status,
			"updated_at":     now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
		}

		paymentUpdates := map[string]any{"status": status, "updated_at": now}
		if status == enums.PaymentStatusPaid {
			paymentUpdates["paid_at"] = now
		}
		if err := repo.UpdatePayments(ctx, order.ID, paymentUpdates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment record")
		}

		result = PaymentStatusResult{
			ID:                    order.ID,
			PaymentStatus:         status,
			PreviousPaymentStatus: order.PaymentStatus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Payment status changed from %s to %s", result.PreviousPaymentStatus, result.PaymentStatus)
	if notes := sanitize.Text(input.Notes); notes != "" {
		description += ": " + notes
	}
	s.activity.Record(ctx, activitylog.Entry{
		Actor:       input.Actor,
		Action:      activitylog.ActionUpdatePaymentStatus,
		EntityType:  activitylog.EntityOrder,
		EntityID:    result.ID,
		Description: description,
	})
	return &result, nil
}

// UpdateTracking stores the courier tracking number and moves the order to shipped
// on the same transaction, under the same guards as TransitionStatus.
func (s *service) UpdateTracking(ctx context.Context, input TrackingInput) (*TrackingResult, error) {
	if input.OrderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	trackingNumber := sanitize.Text(input.TrackingNumber)
	if trackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number is required")
	}
	notes := sanitize.Text(input.ShippingNotes)

	var (
		result   TrackingResult
		previous enums.OrderStatus
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.lockOrder(ctx, tx, input.OrderID)
		if err != nil {
			return err
		}
		previous = order.Status
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindShipping(ctx, order.ID); err != nil {
			if isNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipping record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping record")
		}

		updates := map[string]any{"tracking_number": trackingNumber}
		if notes != "" {
			updates["shipping_notes"] = notes
		}
		if err := repo.UpdateShipping(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tracking number")
		}

		if err := s.applyTransition(ctx, tx, transitionStep{
			order:       order,
			to:          enums.OrderStatusShipped,
			description: trackingDescription(trackingNumber, notes),
			actor:       input.Actor,
			now:         s.now(),
		}); err != nil {
			return err
		}

		result = TrackingResult{ID: order.ID, Status: order.Status, TrackingNumber: trackingNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(previous), string(result.Status))
	s.activity.Record(ctx, activitylog.Entry{
		Actor:       input.Actor,
		Action:      activitylog.ActionUpdateTracking,
		EntityType:  activitylog.EntityOrder,
		EntityID:    result.ID,
		Description: fmt.Sprintf("Tracking number set to %s", trackingNumber),
	})
	return &result, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error) {
	if filters.Sort != "" {
		if _, ok := sortColumns[filters.Sort]; !ok {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported sort %q", filters.Sort)
		}
	}
	if filters.Order != "" && !strings.EqualFold(filters.Order, "asc") && !strings.EqualFold(filters.Order, "desc") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must be asc or desc")
	}

	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	if rows == nil {
		rows = []OrderSummary{}
	}
	return &OrderList{Orders: rows, Pagination: pagination.Result(params, total)}, nil
}

func (s *service) Detail(ctx context.Context, id uint64) (*OrderDetail, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toOrderDetail(order), nil
}

func (s *service) lockOrder(ctx context.Context, tx *gorm.DB, id uint64) (*models.Order, error) {
	order, err := s.repo.WithTx(tx).LockOrder(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func trackingDescription(number, notes string) string {
	description := "No. Resi: " + number
	if notes != "" {
		description += " - " + notes
	}
	return description
}
