package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the inventory read side and manual adjustments.
type Service interface {
	Overview(ctx context.Context, filters OverviewFilters, params pagination.Params) (*VariantStockList, error)
	LowStock(ctx context.Context, warehouseID *uint64, params pagination.Params) (*VariantStockList, error)
	Movements(ctx context.Context, filters MovementFilters, params pagination.Params) (*MovementList, error)
	CreateAdjustment(ctx context.Context, input AdjustmentInput) (*AdjustmentResult, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	stock    *Stock
	activity activitylog.Recorder
}

// ServiceParams wires the inventory service.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Stock    *Stock
	Activity activitylog.Recorder
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock mutator required")
	}
	if params.Activity == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		stock:    params.Stock,
		activity: params.Activity,
	}, nil
}

func (s *service) Overview(ctx context.Context, filters OverviewFilters, params pagination.Params) (*VariantStockList, error) {
	rows, total, err := s.repo.ListVariants(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	if rows == nil {
		rows = []VariantStock{}
	}
	return &VariantStockList{Variants: rows, Pagination: pagination.Result(params, total)}, nil
}

func (s *service) LowStock(ctx context.Context, warehouseID *uint64, params pagination.Params) (*VariantStockList, error) {
	return s.Overview(ctx, OverviewFilters{WarehouseID: warehouseID, LowStock: true}, params)
}

func (s *service) Movements(ctx context.Context, filters MovementFilters, params pagination.Params) (*MovementList, error) {
	if filters.Type != "" && !filters.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid movement type")
	}
	if filters.ReferenceType != "" && !filters.ReferenceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid reference type")
	}
	rows, total, err := s.repo.ListMovements(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory movements")
	}
	if rows == nil {
		rows = []Movement{}
	}
	return &MovementList{Movements: rows, Pagination: pagination.Result(params, total)}, nil
}

// CreateAdjustment applies a manual correction. Removals never take a variant below zero.
func (s *service) CreateAdjustment(ctx context.Context, input AdjustmentInput) (*AdjustmentResult, error) {
	if input.VariantID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant_id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be in or out")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	change := StockChange{
		VariantID: input.VariantID,
		Quantity:  input.Quantity,
		Reference: enums.MovementReferenceAdjustment,
		Notes:     input.Notes,
		CreatedBy: input.Actor.UserIDPtr(),
	}

	var result AdjustmentResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindVariant(ctx, input.VariantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "product variant %d not found", input.VariantID)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}

		var err error
		if input.Type == enums.MovementTypeIn {
			err = s.stock.Restock(ctx, tx, change)
		} else {
			err = s.stock.Remove(ctx, tx, change)
		}
		if err != nil {
			return err
		}

		variant, err := repo.FindVariant(ctx, input.VariantID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload variant")
		}
		result = AdjustmentResult{
			VariantID:     variant.ID,
			Type:          input.Type,
			Quantity:      input.Quantity,
			StockQuantity: variant.StockQuantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, activitylog.Entry{
		Actor:       input.Actor,
		Action:      activitylog.ActionInventoryAdjustment,
		EntityType:  activitylog.EntityProductVariant,
		EntityID:    input.VariantID,
		Description: fmt.Sprintf("stock %s %d (now %d)", input.Type, input.Quantity, result.StockQuantity),
	})
	return &result, nil
}
