package orders

import (
	"context"
	"testing"

	"github.com/denimhub/denimhub-backend/pkg/db/dbtest"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	for _, from := range enums.OrderStatuses() {
		for _, to := range enums.OrderStatuses() {
			got := canTransition(from, to)
			switch {
			case from == enums.OrderStatusCancelled:
				assert.False(t, got, "%s -> %s", from, to)
			case to == enums.OrderStatusCancelled && from.HasShipped():
				assert.False(t, got, "%s -> %s", from, to)
			default:
				assert.True(t, got, "%s -> %s", from, to)
			}
		}
	}

	assert.True(t, canTransition(enums.OrderStatusPending, enums.OrderStatusPacked), "steps may be skipped")
	assert.True(t, canTransition(enums.OrderStatusPacked, enums.OrderStatusCancelled))
	assert.False(t, canTransition(enums.OrderStatusDelivered, enums.OrderStatusCancelled))
}

func TestManualOrderThenCancelRestoresStock(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	variant := dbtest.SeedVariantWithID(t, f.conn, 42, dbtest.VariantSeed{Price: 100000, Cost: 60000, Stock: 10})

	input := manualInput(ManualOrderItem{VariantID: 42, Quantity: 3, Price: price(100000)})
	input.ShippingCost = money(15000)
	created := f.createOrder(t, input)

	order := f.order(t, created.ID)
	assert.True(t, money(300000).Equal(order.Subtotal), "subtotal %s", order.Subtotal)
	assert.True(t, money(315000).Equal(order.TotalAmount), "total %s", order.TotalAmount)
	assert.Equal(t, enums.OrderStatusConfirmed, order.Status)
	assert.Equal(t, 7, dbtest.StockOf(t, f.conn, variant.ID))

	movements := f.movements(t, variant.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, enums.MovementTypeOut, movements[0].Type)
	assert.Equal(t, 3, movements[0].Quantity)
	assert.Equal(t, enums.MovementReferenceOrder, movements[0].ReferenceType)
	require.NotNil(t, movements[0].ReferenceID)
	assert.Equal(t, created.ID, *movements[0].ReferenceID)

	result, err := f.svc.TransitionStatus(context.Background(), TransitionInput{
		OrderID: created.ID,
		Status:  "cancelled",
		Notes:   "customer changed their mind",
		Actor:   testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, result.PreviousStatus)
	assert.Equal(t, enums.OrderStatusCancelled, result.Status)

	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, variant.ID))
	movements = f.movements(t, variant.ID)
	require.Len(t, movements, 2)
	assert.Equal(t, enums.MovementTypeIn, movements[1].Type)
	assert.Equal(t, 3, movements[1].Quantity)
	assert.Equal(t, enums.MovementReferenceOrderCancelled, movements[1].ReferenceType)
	assert.Equal(t, created.ID, *movements[1].ReferenceID)

	history := f.history(t, created.ID)
	require.Len(t, history, 2)
	assert.Equal(t, enums.ManualOrderCreatedTitle, history[0].Title)
	assert.Equal(t, "Pesanan Dibatalkan", history[1].Title)
	assert.Equal(t, "customer changed their mind", history[1].Description)
	require.NotNil(t, history[1].CreatedBy)
	assert.Equal(t, testActor.UserID, *history[1].CreatedBy)

	assert.Equal(t, []string{"confirmed->cancelled"}, f.metrics.transitions)

	var logs []models.ActivityLog
	require.NoError(t, f.conn.Where("action = ?", "update_order_status").Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Description, "confirmed to cancelled")
}

func TestCancelRestoresEveryLine(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	first := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{SizeName: "30", Price: 250000, Stock: 5})
	second := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{SizeName: "34", Price: 275000, Stock: 8})

	created := f.createOrder(t, manualInput(
		ManualOrderItem{VariantID: first.ID, Quantity: 2},
		ManualOrderItem{VariantID: second.ID, Quantity: 5},
		ManualOrderItem{VariantID: first.ID, Quantity: 1},
	))
	assert.Equal(t, 2, dbtest.StockOf(t, f.conn, first.ID))
	assert.Equal(t, 3, dbtest.StockOf(t, f.conn, second.ID))

	f.transition(t, created.ID, enums.OrderStatusCancelled)
	assert.Equal(t, 5, dbtest.StockOf(t, f.conn, first.ID))
	assert.Equal(t, 8, dbtest.StockOf(t, f.conn, second.ID))
}

func TestCancelledIsTerminal(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	variant := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{Price: 100000, Stock: 10})
	created := f.createOrder(t, manualInput(ManualOrderItem{VariantID: variant.ID, Quantity: 2}))
	f.transition(t, created.ID, enums.OrderStatusCancelled)

	historyBefore := len(f.history(t, created.ID))
	movementsBefore := len(f.movements(t, variant.ID))

	for _, status := range enums.OrderStatuses() {
		_, err := f.svc.TransitionStatus(context.Background(), TransitionInput{
			OrderID: created.ID,
			Status:  string(status),
			Actor:   testActor,
		})
		require.Error(t, err, "cancelled -> %s", status)
		assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))
	}

	assert.Equal(t, enums.OrderStatusCancelled, f.order(t, created.ID).Status)
	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, variant.ID), "a second cancel must not restock twice")
	assert.Len(t, f.history(t, created.ID), historyBefore)
	assert.Len(t, f.movements(t, variant.ID), movementsBefore)
}

func TestCancelRejectedAfterShipment(t *testing.T) {
	for _, shipped := range []enums.OrderStatus{
		enums.OrderStatusShipped,
		enums.OrderStatusInTransit,
		enums.OrderStatusOutForDelivery,
		enums.OrderStatusDelivered,
	} {
		t.Run(string(shipped), func(t *testing.T) {
			f := newFixture(t, fixtureOptions{})
			variant := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{Price: 100000, Stock: 10})
			created := f.createOrder(t, manualInput(ManualOrderItem{VariantID: variant.ID, Quantity: 4}))
			f.transition(t, created.ID, shipped)

			_, err := f.svc.TransitionStatus(context.Background(), TransitionInput{
				OrderID: created.ID,
				Status:  "cancelled",
				Actor:   testActor,
			})
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))
			assert.Equal(t, 400, pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus)

			assert.Equal(t, shipped, f.order(t, created.ID).Status)
			assert.Equal(t, 6, dbtest.StockOf(t, f.conn, variant.ID))
			assert.Len(t, f.history(t, created.ID), 2)
		})
	}
}

func TestEachTransitionAppendsOneHistoryRow(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	variant := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{Price: 100000, Stock: 10})
	created := f.createOrder(t, manualInput(ManualOrderItem{VariantID: variant.ID, Quantity: 1}))

	path := []enums.OrderStatus{
		enums.OrderStatusPacked,
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusInTransit,
		enums.OrderStatusOutForDelivery,
		enums.OrderStatusDelivered,
	}
	for i, status := range path {
		f.transition(t, created.ID, status)
		history := f.history(t, created.ID)
		require.Len(t, history, i+2)
		assert.Equal(t, status, history[i+1].Status)
		assert.Equal(t, status.Title(), history[i+1].Title)
	}

	var shipping models.OrderShipping
	require.NoError(t, f.conn.Where("order_id = ?", created.ID).First(&shipping).Error)
	assert.NotNil(t, shipping.ShippedAt)
	assert.NotNil(t, shipping.DeliveredAt)
	assert.Len(t, f.metrics.transitions, len(path))
}

func TestApprovedAtStampedOnFirstConfirmation(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	variant := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{Price: 100000, Stock: 10})
	created := f.createOrder(t, manualInput(ManualOrderItem{VariantID: variant.ID, Quantity: 1}))

	require.NoError(t, f.conn.Model(&models.Order{}).Where("id = ?", created.ID).
		Updates(map[string]any{"status": enums.OrderStatusPending, "approved_at": nil}).Error)
	assert.Nil(t, f.order(t, created.ID).ApprovedAt)

	f.transition(t, created.ID, enums.OrderStatusConfirmed)
	first := f.order(t, created.ID).ApprovedAt
	require.NotNil(t, first)

	f.transition(t, created.ID, enums.OrderStatusProcessing)
	f.transition(t, created.ID, enums.OrderStatusConfirmed)
	second := f.order(t, created.ID).ApprovedAt
	require.NotNil(t, second)
	assert.True(t, first.Equal(*second), "approved_at is only stamped once")
}

func TestTransitionValidation(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	_, err := f.svc.TransitionStatus(ctx, TransitionInput{OrderID: 1, Status: "teleported"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = f.svc.TransitionStatus(ctx, TransitionInput{Status: "shipped"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = f.svc.TransitionStatus(ctx, TransitionInput{OrderID: 999, Status: "shipped"})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.Zero(t, f.count(t, &models.OrderShippingHistory{}))
}

func TestCancelSkipsDeletedVariant(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	kept := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{SizeName: "30", Price: 100000, Stock: 10})
	removed := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{SizeName: "31", Price: 100000, Stock: 10})
	created := f.createOrder(t, manualInput(
		ManualOrderItem{VariantID: kept.ID, Quantity: 2},
		ManualOrderItem{VariantID: removed.ID, Quantity: 2},
	))

	require.NoError(t, f.conn.Delete(&models.ProductVariant{}, removed.ID).Error)
	f.transition(t, created.ID, enums.OrderStatusCancelled)

	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, kept.ID))
	assert.Len(t, f.movements(t, removed.ID), 1, "no restock movement for a missing variant")

	detail, err := f.svc.Detail(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "31", detail.Items[1].SizeName, "item snapshot survives variant deletion")
}
