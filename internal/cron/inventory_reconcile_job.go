package cron

import (
	"context"
	"fmt"

	"github.com/denimhub/denimhub-backend/pkg/enums"
	"github.com/denimhub/denimhub-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// InventoryReconcileJobParams configure the stock ledger reconciliation job.
type InventoryReconcileJobParams struct {
	Logger        *logger.Logger
	DB            *gorm.DB
	Metrics       driftRecorder
	AllowNegative bool
}

type driftRecorder interface {
	SetInventoryDrift(count int)
}

type stockDrift struct {
	VariantID     uint64
	SKU           string
	StockQuantity int
	LedgerBalance int
}

type negativeStock struct {
	VariantID     uint64
	SKU           string
	StockQuantity int
}

// NewInventoryReconcileJob builds the job comparing each variant's stock counter
// with the balance of its movement ledger. It only reports; stock is never rewritten.
func NewInventoryReconcileJob(params InventoryReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db required")
	}
	return &inventoryReconcileJob{
		logg:          params.Logger,
		db:            params.DB,
		metrics:       params.Metrics,
		allowNegative: params.AllowNegative,
	}, nil
}

type inventoryReconcileJob struct {
	logg          *logger.Logger
	db            *gorm.DB
	metrics       driftRecorder
	allowNegative bool
}

func (j *inventoryReconcileJob) Name() string { return "inventory-reconcile" }

func (j *inventoryReconcileJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.reportDrift(ctx); err != nil {
		errs = append(errs, err)
	}
	if !j.allowNegative {
		if err := j.reportNegativeStock(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}

func (j *inventoryReconcileJob) reportDrift(ctx context.Context) error {
	drifts, err := j.findDrift(ctx)
	if err != nil {
		return fmt.Errorf("query stock drift: %w", err)
	}
	for _, drift := range drifts {
		entryCtx := j.logg.WithFields(ctx, map[string]any{
			"variant_id":     drift.VariantID,
			"sku":            drift.SKU,
			"stock_quantity": drift.StockQuantity,
			"ledger_balance": drift.LedgerBalance,
		})
		j.logg.Warn(entryCtx, "stock counter does not match movement ledger")
	}
	if j.metrics != nil {
		j.metrics.SetInventoryDrift(len(drifts))
	}
	if len(drifts) > 0 {
		j.logg.Info(j.logg.WithField(ctx, "drifted_variants", len(drifts)), "inventory reconcile found drift")
	}
	return nil
}

func (j *inventoryReconcileJob) findDrift(ctx context.Context) ([]stockDrift, error) {
	balance := "COALESCE(SUM(CASE WHEN m.type = ? THEN m.quantity WHEN m.type = ? THEN -m.quantity ELSE 0 END), 0)"
	var rows []stockDrift
	err := j.db.WithContext(ctx).
		Table("product_variants AS pv").
		Select("pv.id AS variant_id, pv.sku AS sku, pv.stock_quantity AS stock_quantity, "+balance+" AS ledger_balance",
			enums.MovementTypeIn, enums.MovementTypeOut).
		Joins("LEFT JOIN inventory_movements m ON m.product_variant_id = pv.id").
		Group("pv.id, pv.sku, pv.stock_quantity").
		Having(balance+" <> pv.stock_quantity", enums.MovementTypeIn, enums.MovementTypeOut).
		Order("pv.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (j *inventoryReconcileJob) reportNegativeStock(ctx context.Context) error {
	var rows []negativeStock
	err := j.db.WithContext(ctx).
		Table("product_variants").
		Select("id AS variant_id, sku, stock_quantity").
		Where("stock_quantity < 0").
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("query negative stock: %w", err)
	}
	for _, row := range rows {
		entryCtx := j.logg.WithFields(ctx, map[string]any{
			"variant_id":     row.VariantID,
			"sku":            row.SKU,
			"stock_quantity": row.StockQuantity,
		})
		j.logg.Warn(entryCtx, "variant stock is negative while negative stock is disabled")
	}
	return nil
}
