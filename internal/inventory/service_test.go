package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/pkg/db"
	"github.com/denimhub/denimhub-backend/pkg/db/dbtest"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/logger"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, client *db.Client) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(client.DB()),
		Tx:       client,
		Stock:    NewStock(StockOptions{}),
		Activity: activitylog.NewRecorder(activitylog.NewRepository(client.DB()), logger.Nop()),
	})
	require.NoError(t, err)
	return svc
}

func TestCreateAdjustment(t *testing.T) {
	client := dbtest.Open(t)
	variant := dbtest.SeedVariant(t, client.DB(), dbtest.VariantSeed{Price: 250000, Stock: 3})
	svc := newTestService(t, client)
	ctx := context.Background()
	actor := activitylog.Actor{UserID: 4}

	res, err := svc.CreateAdjustment(ctx, AdjustmentInput{VariantID: variant.ID, Type: enums.MovementTypeIn, Quantity: 5, Notes: "restock from supplier", Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, 8, res.StockQuantity)

	res, err = svc.CreateAdjustment(ctx, AdjustmentInput{VariantID: variant.ID, Type: enums.MovementTypeOut, Quantity: 8, Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, 0, res.StockQuantity)

	_, err = svc.CreateAdjustment(ctx, AdjustmentInput{VariantID: variant.ID, Type: enums.MovementTypeOut, Quantity: 1, Actor: actor})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	assert.Equal(t, 0, dbtest.StockOf(t, client.DB(), variant.ID))

	_, err = svc.CreateAdjustment(ctx, AdjustmentInput{VariantID: 12345, Type: enums.MovementTypeIn, Quantity: 1})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = svc.CreateAdjustment(ctx, AdjustmentInput{VariantID: variant.ID, Type: "sideways", Quantity: 1})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	var logs int64
	require.NoError(t, client.DB().Model(&models.ActivityLog{}).Where("action = ?", activitylog.ActionInventoryAdjustment).Count(&logs).Error)
	assert.Equal(t, int64(2), logs)

	list, err := svc.Movements(ctx, MovementFilters{VariantID: &variant.ID, ReferenceType: enums.MovementReferenceAdjustment}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, list.Movements, 2)
	assert.Equal(t, enums.MovementTypeOut, list.Movements[0].Type)
	assert.Equal(t, "Slim Fit Jeans", list.Movements[0].ProductName)
	assert.Equal(t, int64(2), list.Pagination.Total)

	future := time.Now().Add(time.Hour)
	none, err := svc.Movements(ctx, MovementFilters{DateFrom: &future}, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, none.Movements)
}

func TestOverviewAndLowStock(t *testing.T) {
	client := dbtest.Open(t)
	low := dbtest.SeedVariant(t, client.DB(), dbtest.VariantSeed{ProductName: "Loose Jeans", SizeName: "30", Warehouse: "JKT", Price: 200000, Stock: 1, Minimum: 5})
	dbtest.SeedVariant(t, client.DB(), dbtest.VariantSeed{ProductName: "Slim Jeans", SizeName: "32", Warehouse: "SBY", Price: 300000, Stock: 50, Minimum: 5})
	svc := newTestService(t, client)
	ctx := context.Background()

	all, err := svc.Overview(ctx, OverviewFilters{}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, all.Variants, 2)
	assert.Equal(t, "Loose Jeans", all.Variants[0].ProductName)
	assert.True(t, all.Variants[0].IsLowStock)
	assert.False(t, all.Variants[1].IsLowStock)

	alerts, err := svc.LowStock(ctx, nil, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, alerts.Variants, 1)
	assert.Equal(t, low.ID, alerts.Variants[0].VariantID)
	assert.Equal(t, "30", alerts.Variants[0].SizeName)

	search, err := svc.Overview(ctx, OverviewFilters{Search: "Slim"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, search.Variants, 1)
	assert.Equal(t, "SBY", search.Variants[0].WarehouseCode)

	byWarehouse, err := svc.Overview(ctx, OverviewFilters{WarehouseID: &low.WarehouseID}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, byWarehouse.Variants, 1)
}
