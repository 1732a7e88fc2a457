// Package coupons keeps coupon and discount usage counters in step with the
// orders that consume them.
package coupons

import (
	"context"
	"strings"
	"time"

	"github.com/denimhub/denimhub-backend/pkg/db/models"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"gorm.io/gorm"
)

// Tracker records and releases code usage on the caller's transaction.
type Tracker struct {
	now func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{now: func() time.Time { return time.Now().UTC() }}
}

// RecordUsage consumes one use of code for orderID and reports whether a counter
// moved. Coupons must be active, inside their validity window and under their
// usage limit; the limit is enforced by a conditional UPDATE. Codes that are not
// coupons fall back to active rows of the discounts table. A code that matches
// nothing usable is left uncounted; only store failures are returned.
func (t *Tracker) RecordUsage(ctx context.Context, tx *gorm.DB, code string, orderID uint64, userID *uint64) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}
	tx = tx.WithContext(ctx)

	coupon, err := findCoupon(tx, code)
	if err != nil {
		return false, err
	}
	if coupon != nil {
		return t.consumeCoupon(tx, coupon, orderID, userID)
	}

	res := tx.Model(&models.Discount{}).
		Where("code = ? AND is_active = ?", code, true).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "record discount usage")
	}
	return res.RowsAffected > 0, nil
}

func (t *Tracker) consumeCoupon(tx *gorm.DB, coupon *models.Coupon, orderID uint64, userID *uint64) (bool, error) {
	if !t.usable(coupon) {
		return false, nil
	}

	query := tx.Model(&models.Coupon{}).Where("id = ?", coupon.ID)
	if coupon.UsageLimit != nil {
		query = query.Where("usage_count < ?", *coupon.UsageLimit)
	}
	res := query.Update("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "record coupon usage")
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	usage := &models.CouponUsage{CouponID: coupon.ID, OrderID: orderID, UserID: userID}
	if err := tx.Create(usage).Error; err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon usage")
	}
	return true, nil
}

func (t *Tracker) usable(coupon *models.Coupon) bool {
	now := t.now()
	if !coupon.IsActive {
		return false
	}
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return false
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return false
	}
	return true
}

// ReleaseUsage gives back what RecordUsage took for orderID. A coupon counter is
// decremented only when the order held a coupon_usages row; a discount counter
// only while the discount is still active. Counters never drop below zero.
func (t *Tracker) ReleaseUsage(ctx context.Context, tx *gorm.DB, code string, orderID uint64) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	tx = tx.WithContext(ctx)

	coupon, err := findCoupon(tx, code)
	if err != nil {
		return err
	}
	if coupon != nil {
		res := tx.Where("coupon_id = ? AND order_id = ?", coupon.ID, orderID).Delete(&models.CouponUsage{})
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "delete coupon usage")
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.Coupon{}).
			Where("id = ?", coupon.ID).
			Update("usage_count", floorDecrement()).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release coupon usage")
		}
		return nil
	}

	if err := tx.Model(&models.Discount{}).
		Where("code = ? AND is_active = ?", code, true).
		Update("usage_count", floorDecrement()).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release discount usage")
	}
	return nil
}

func findCoupon(tx *gorm.DB, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := tx.Where("code = ?", code).Limit(1).Find(&coupon).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if coupon.ID == 0 {
		return nil, nil
	}
	return &coupon, nil
}

func floorDecrement() any {
	return gorm.Expr("CASE WHEN usage_count > 0 THEN usage_count - 1 ELSE 0 END")
}
