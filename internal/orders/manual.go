package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/internal/inventory"
	"github.com/denimhub/denimhub-backend/internal/users"
	"github.com/denimhub/denimhub-backend/pkg/besteffort"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/sanitize"
	"github.com/denimhub/denimhub-backend/pkg/security"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	orderNumberPrefix   = "ORD"
	orderNumberAttempts = 5
	orderTokenBytes     = 32
	// moneyScale matches the decimal(15,2) money columns.
	moneyScale = 2
)

// ComputeTotals derives the order totals from its lines:
// total = subtotal + shipping + taxes - discounts.
func ComputeTotals(items []ManualOrderItem, prices []decimal.Decimal, shipping decimal.Decimal, taxes, discounts []ChargeLine) Totals {
	totals := Totals{
		Subtotal:      decimal.Zero,
		ShippingCost:  shipping,
		TaxAmount:     decimal.Zero,
		DiscountTotal: decimal.Zero,
	}
	for i, item := range items {
		totals.Subtotal = totals.Subtotal.Add(prices[i].Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	for _, tax := range taxes {
		totals.TaxAmount = totals.TaxAmount.Add(tax.Amount)
	}
	for _, discount := range discounts {
		totals.DiscountTotal = totals.DiscountTotal.Add(discount.Amount)
	}
	totals.Total = totals.Subtotal.Add(totals.ShippingCost).Add(totals.TaxAmount).Sub(totals.DiscountTotal)
	return totals
}

// CreateManualOrder builds a confirmed order from an admin-entered cart. Everything
// except the optional tax and discount itemization rows commits or rolls back together.
func (s *service) CreateManualOrder(ctx context.Context, input ManualOrderInput, actor activitylog.Actor) (*ManualOrderResult, error) {
	if err := validateManualOrder(input); err != nil {
		return nil, err
	}

	var result ManualOrderResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := s.now()

		customer, err := s.customers.Resolve(ctx, tx, users.CustomerInput{
			CreateNewUser: input.CreateNewUser,
			Name:          input.CustomerName,
			Email:         input.CustomerEmail,
			Phone:         input.CustomerPhone,
			Password:      input.Password,
			UserID:        input.UserID,
		})
		if err != nil {
			return err
		}

		snapshots, prices, err := s.loadSnapshots(ctx, repo, input.Items)
		if err != nil {
			return err
		}
		totals := ComputeTotals(input.Items, prices, input.ShippingCost, input.Taxes, input.Discounts)

		order, err := s.newOrderHeader(ctx, repo, input, customer, totals, actor, now)
		if err != nil {
			return err
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if order.DiscountCode != nil {
			applied, err := s.coupons.RecordUsage(ctx, tx, *order.DiscountCode, order.ID, order.UserID)
			if err != nil {
				return err
			}
			if !applied {
				logCtx := s.logg.WithField(ctx, "discount_code", *order.DiscountCode)
				s.logg.Warn(logCtx, "discount code not counted")
			}
		}

		s.insertChargeLines(ctx, tx, order.ID, input.Taxes, input.Discounts)

		orderID := order.ID
		for i, line := range input.Items {
			snapshot := snapshots[i]
			if err := s.stock.Deduct(ctx, tx, inventory.StockChange{
				VariantID:   snapshot.VariantID,
				Quantity:    line.Quantity,
				Reference:   enums.MovementReferenceOrder,
				ReferenceID: &orderID,
				Notes:       fmt.Sprintf("Manual order %s", order.OrderNumber),
				CreatedBy:   actor.UserIDPtr(),
			}); err != nil {
				return err
			}

			variantID := snapshot.VariantID
			productID := snapshot.ProductID
			item := &models.OrderItem{
				OrderID:          order.ID,
				ProductVariantID: &variantID,
				ProductID:        &productID,
				ProductName:      snapshot.ProductName,
				SizeName:         snapshot.SizeName,
				ProductSKU:       snapshot.SKU,
				Quantity:         line.Quantity,
				UnitPrice:        prices[i],
				UnitCost:         snapshot.CostPrice,
				Subtotal:         prices[i].Mul(decimal.NewFromInt(int64(line.Quantity))),
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order item")
			}
		}

		method, _ := enums.ParsePaymentMethod(input.PaymentMethod)
		if err := repo.CreatePayment(ctx, &models.Payment{
			OrderID: order.ID,
			Method:  method.String(),
			Amount:  totals.Total,
			Status:  enums.PaymentStatusPending,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		if err := repo.CreateShipping(ctx, &models.OrderShipping{
			OrderID:       order.ID,
			RecipientName: strings.TrimSpace(input.CustomerName),
			Phone:         strings.TrimSpace(input.CustomerPhone),
			Address:       sanitize.Text(input.ShippingAddress),
			City:          strings.TrimSpace(input.ShippingCity),
			Province:      strings.TrimSpace(input.ShippingProvince),
			PostalCode:    strings.TrimSpace(input.ShippingPostalCode),
			Country:       strings.TrimSpace(input.ShippingCountry),
			Courier:       strings.TrimSpace(input.Courier),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipping record")
		}

		if err := repo.AppendHistory(ctx, &models.OrderShippingHistory{
			OrderID:     order.ID,
			Status:      enums.OrderStatusConfirmed,
			Title:       enums.ManualOrderCreatedTitle,
			Description: sanitize.Text(input.Notes),
			CreatedBy:   actor.UserIDPtr(),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append shipping history")
		}

		result = ManualOrderResult{ID: order.ID, OrderNumber: order.OrderNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncManualOrder()
	logCtx := s.logg.WithOrderID(ctx, result.ID)
	s.logg.Info(logCtx, "manual order created")
	s.activity.Record(ctx, activitylog.Entry{
		Actor:       actor,
		Action:      activitylog.ActionCreateManualOrder,
		EntityType:  activitylog.EntityOrder,
		EntityID:    result.ID,
		Description: fmt.Sprintf("Created manual order %s", result.OrderNumber),
	})
	return &result, nil
}

func validateManualOrder(input ManualOrderInput) error {
	if missing := input.MissingFields(); len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"missing_fields": missing})
	}
	for i, item := range input.Items {
		if item.VariantID == 0 {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].variant_id is required", i)
		}
		if item.Quantity <= 0 {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].quantity must be positive", i)
		}
		if item.Price != nil {
			if item.Price.IsNegative() {
				return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].price must not be negative", i)
			}
			if !isMoney(*item.Price) {
				return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].price has more than %d decimal places", i, moneyScale)
			}
		}
	}
	if input.ShippingCost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping_cost must not be negative")
	}
	if !isMoney(input.ShippingCost) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "shipping_cost has more than %d decimal places", moneyScale)
	}
	if err := validateChargeLines("taxes", input.Taxes); err != nil {
		return err
	}
	if err := validateChargeLines("discounts", input.Discounts); err != nil {
		return err
	}
	if input.ExchangeRate != nil && !input.ExchangeRate.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "exchange_rate must be positive")
	}
	if _, err := enums.ParsePaymentMethod(input.PaymentMethod); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported payment_method")
	}
	return nil
}

func validateChargeLines(field string, lines []ChargeLine) error {
	for i, line := range lines {
		if line.Amount.IsNegative() {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "%s[%d].amount must not be negative", field, i)
		}
		if !isMoney(line.Amount) {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "%s[%d].amount has more than %d decimal places", field, i, moneyScale)
		}
	}
	return nil
}

// isMoney reports whether value is stored without rounding, so every stored
// column still adds up to the stored total.
func isMoney(value decimal.Decimal) bool {
	return value.Equal(value.Round(moneyScale))
}

// loadSnapshots resolves every cart line before any stock moves so a bad variant
// id fails the order with nothing written.
func (s *service) loadSnapshots(ctx context.Context, repo Repository, items []ManualOrderItem) ([]VariantSnapshot, []decimal.Decimal, error) {
	snapshots := make([]VariantSnapshot, 0, len(items))
	prices := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		snapshot, err := repo.FindVariantSnapshot(ctx, item.VariantID)
		if err != nil {
			if isNotFound(err) {
				return nil, nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product variant %d not found", item.VariantID)
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product variant")
		}
		price := snapshot.Price
		if item.Price != nil {
			price = *item.Price
		}
		snapshots = append(snapshots, *snapshot)
		prices = append(prices, price)
	}
	return snapshots, prices, nil
}

func (s *service) newOrderHeader(
	ctx context.Context,
	repo Repository,
	input ManualOrderInput,
	customer users.Customer,
	totals Totals,
	actor activitylog.Actor,
	now time.Time,
) (*models.Order, error) {
	number, err := s.nextOrderNumber(ctx, repo, now)
	if err != nil {
		return nil, err
	}
	token, err := security.RandomHex(orderTokenBytes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order token")
	}

	currency := enums.CurrencyForCountry(input.ShippingCountry)
	var rate *decimal.Decimal
	if currency == enums.CurrencyUSD && input.ExchangeRate != nil {
		value := *input.ExchangeRate
		rate = &value
	}

	var discountCode *string
	if input.DiscountCode != nil {
		if code := strings.TrimSpace(*input.DiscountCode); code != "" {
			discountCode = &code
		}
	}

	approvedAt := now
	return &models.Order{
		OrderNumber:    number,
		UniqueToken:    token,
		UserID:         customer.UserID,
		GuestEmail:     customer.GuestEmail,
		CustomerName:   strings.TrimSpace(input.CustomerName),
		CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
		Status:         enums.OrderStatusConfirmed,
		PaymentStatus:  enums.PaymentStatusPending,
		Currency:       currency,
		ExchangeRate:   rate,
		Subtotal:       totals.Subtotal,
		ShippingCost:   totals.ShippingCost,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: totals.DiscountTotal,
		TotalAmount:    totals.Total,
		DiscountCode:   discountCode,
		Notes:          sanitize.Text(input.Notes),
		CreatedBy:      actor.UserIDPtr(),
		ApprovedAt:     &approvedAt,
	}, nil
}

// nextOrderNumber draws ORD-YYYYMMDD-NNNN numbers until one is free. The unique
// index still guards the insert against a concurrent writer.
func (s *service) nextOrderNumber(ctx context.Context, repo Repository, now time.Time) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		digits, err := security.RandomDigits(4)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}
		number := fmt.Sprintf("%s-%s-%s", orderNumberPrefix, now.Format("20060102"), digits)
		taken, err := repo.OrderNumberExists(ctx, number)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order number")
		}
		if !taken {
			return number, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique order number")
}

// insertChargeLines writes the itemized tax and discount rows. Each row runs under
// its own savepoint; a failure is logged and skipped without aborting the order.
func (s *service) insertChargeLines(ctx context.Context, tx *gorm.DB, orderID uint64, taxes, discounts []ChargeLine) {
	for i, line := range taxes {
		row := &models.OrderTax{
			OrderID:     orderID,
			Description: sanitize.Text(line.Description),
			Amount:      line.Amount,
			SortOrder:   i,
		}
		s.withSavepoint(ctx, tx, fmt.Sprintf("order_tax_%d", i), func(repo Repository) error {
			return repo.CreateTax(ctx, row)
		})
	}
	for i, line := range discounts {
		row := &models.OrderDiscount{
			OrderID:     orderID,
			Description: sanitize.Text(line.Description),
			Amount:      line.Amount,
			SortOrder:   i,
		}
		s.withSavepoint(ctx, tx, fmt.Sprintf("order_discount_%d", i), func(repo Repository) error {
			return repo.CreateDiscount(ctx, row)
		})
	}
}

func (s *service) withSavepoint(ctx context.Context, tx *gorm.DB, name string, fn func(repo Repository) error) {
	besteffort.Run(ctx, s.logg, name, func(ctx context.Context) error {
		if err := tx.SavePoint(name).Error; err != nil {
			return err
		}
		if err := fn(s.repo.WithTx(tx)); err != nil {
			if rbErr := tx.RollbackTo(name).Error; rbErr != nil {
				return fmt.Errorf("%w (rollback to savepoint: %v)", err, rbErr)
			}
			return err
		}
		return nil
	})
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
