package inventory

import (
	"context"
	"testing"

	"github.com/denimhub/denimhub-backend/pkg/db/dbtest"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDeductGuardedRejectsShortfall(t *testing.T) {
	client := dbtest.Open(t)
	variant := dbtest.SeedVariant(t, client.DB(), dbtest.VariantSeed{Price: 100000, Stock: 2})
	stock := NewStock(StockOptions{})
	orderID := uint64(5)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return stock.Deduct(context.Background(), tx, StockChange{
			VariantID:   variant.ID,
			Quantity:    3,
			Reference:   enums.MovementReferenceOrder,
			ReferenceID: &orderID,
		})
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, dbtest.StockOf(t, client.DB(), variant.ID))

	var movements int64
	require.NoError(t, client.DB().Model(&models.InventoryMovement{}).Count(&movements).Error)
	assert.Zero(t, movements)
}

func TestDeductAllowNegative(t *testing.T) {
	client := dbtest.Open(t)
	variant := dbtest.SeedVariant(t, client.DB(), dbtest.VariantSeed{Price: 100000, Stock: 1})
	stock := NewStock(StockOptions{AllowNegative: true})

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return stock.Deduct(context.Background(), tx, StockChange{VariantID: variant.ID, Quantity: 3, Reference: enums.MovementReferenceOrder})
	})
	require.NoError(t, err)
	assert.Equal(t, -2, dbtest.StockOf(t, client.DB(), variant.ID))
}

func TestDeductUnknownVariant(t *testing.T) {
	client := dbtest.Open(t)
	stock := NewStock(StockOptions{})

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return stock.Deduct(context.Background(), tx, StockChange{VariantID: 999, Quantity: 1, Reference: enums.MovementReferenceOrder})
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestRestockMirrorsDeduct(t *testing.T) {
	client := dbtest.Open(t)
	variant := dbtest.SeedVariant(t, client.DB(), dbtest.VariantSeed{Price: 100000, Stock: 10})
	stock := NewStock(StockOptions{})
	orderID := uint64(1)
	ctx := context.Background()

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return stock.Deduct(ctx, tx, StockChange{VariantID: variant.ID, Quantity: 4, Reference: enums.MovementReferenceOrder, ReferenceID: &orderID})
	}))
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return stock.Restock(ctx, tx, StockChange{VariantID: variant.ID, Quantity: 4, Reference: enums.MovementReferenceOrderCancelled, ReferenceID: &orderID})
	}))

	assert.Equal(t, 10, dbtest.StockOf(t, client.DB(), variant.ID))

	var movements []models.InventoryMovement
	require.NoError(t, client.DB().Order("id ASC").Find(&movements).Error)
	require.Len(t, movements, 2)
	assert.Equal(t, enums.MovementTypeOut, movements[0].Type)
	assert.Equal(t, enums.MovementReferenceOrder, movements[0].ReferenceType)
	assert.Equal(t, enums.MovementTypeIn, movements[1].Type)
	assert.Equal(t, enums.MovementReferenceOrderCancelled, movements[1].ReferenceType)
	assert.Equal(t, orderID, *movements[1].ReferenceID)
}

func TestRestockSkipsMissingVariant(t *testing.T) {
	client := dbtest.Open(t)
	stock := NewStock(StockOptions{})

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return stock.Restock(context.Background(), tx, StockChange{VariantID: 77, Quantity: 1, Reference: enums.MovementReferenceOrderCancelled})
	})
	require.NoError(t, err)

	var movements int64
	require.NoError(t, client.DB().Model(&models.InventoryMovement{}).Count(&movements).Error)
	assert.Zero(t, movements)
}

func TestValidateChange(t *testing.T) {
	stock := NewStock(StockOptions{})
	err := stock.Restock(context.Background(), nil, StockChange{VariantID: 1, Quantity: 0, Reference: enums.MovementReferenceAdjustment})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
