package orders

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/denimhub/denimhub-backend/pkg/db/dbtest"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.EqualError(t, err, "orders repository required")
}

func TestUpdatePaymentStatus(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	variant := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{Price: 100000, Stock: 10})
	created := f.createOrder(t, manualInput(ManualOrderItem{VariantID: variant.ID, Quantity: 1}))
	ctx := context.Background()

	result, err := f.svc.UpdatePaymentStatus(ctx, PaymentStatusInput{
		OrderID:       created.ID,
		PaymentStatus: "paid",
		Notes:         "BCA transfer",
		Actor:         testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, result.PreviousPaymentStatus)
	assert.Equal(t, enums.PaymentStatusPaid, result.PaymentStatus)

	order := f.order(t, created.ID)
	assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusConfirmed, order.Status)

	var payment models.Payment
	require.NoError(t, f.conn.Where("order_id = ?", created.ID).First(&payment).Error)
	assert.Equal(t, enums.PaymentStatusPaid, payment.Status)
	assert.NotNil(t, payment.PaidAt)

	assert.Len(t, f.history(t, created.ID), 1, "payment changes do not touch the shipping history")

	var log models.ActivityLog
	require.NoError(t, f.conn.Where("action = ?", "update_payment_status").First(&log).Error)
	assert.Contains(t, log.Description, "BCA transfer")

	_, err = f.svc.UpdatePaymentStatus(ctx, PaymentStatusInput{OrderID: created.ID, PaymentStatus: "settled"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = f.svc.UpdatePaymentStatus(ctx, PaymentStatusInput{OrderID: 999, PaymentStatus: "paid"})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestUpdateTrackingShipsOrder(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	variant := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{Price: 100000, Stock: 10})
	created := f.createOrder(t, manualInput(ManualOrderItem{VariantID: variant.ID, Quantity: 1}))

	result, err := f.svc.UpdateTracking(context.Background(), TrackingInput{
		OrderID:        created.ID,
		TrackingNumber: " JNE0012345 ",
		ShippingNotes:  "dropped at JNE Kemang",
		Actor:          testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, result.Status)
	assert.Equal(t, "JNE0012345", result.TrackingNumber)

	var shipping models.OrderShipping
	require.NoError(t, f.conn.Where("order_id = ?", created.ID).First(&shipping).Error)
	require.NotNil(t, shipping.TrackingNumber)
	assert.Equal(t, "JNE0012345", *shipping.TrackingNumber)
	require.NotNil(t, shipping.ShippingNotes)
	assert.Equal(t, "dropped at JNE Kemang", *shipping.ShippingNotes)
	assert.NotNil(t, shipping.ShippedAt)

	history := f.history(t, created.ID)
	require.Len(t, history, 2)
	assert.Equal(t, enums.OrderStatusShipped, history[1].Status)
	assert.Equal(t, "Pesanan Dikirim", history[1].Title)
	assert.Contains(t, history[1].Description, "JNE0012345")
	assert.Equal(t, []string{"confirmed->shipped"}, f.metrics.transitions)
}

func TestUpdateTrackingRejectedForCancelledOrder(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	variant := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{Price: 100000, Stock: 10})
	created := f.createOrder(t, manualInput(ManualOrderItem{VariantID: variant.ID, Quantity: 1}))
	f.transition(t, created.ID, enums.OrderStatusCancelled)

	_, err := f.svc.UpdateTracking(context.Background(), TrackingInput{OrderID: created.ID, TrackingNumber: "JNE1"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))

	var shipping models.OrderShipping
	require.NoError(t, f.conn.Where("order_id = ?", created.ID).First(&shipping).Error)
	assert.Nil(t, shipping.TrackingNumber, "tracking write rolls back with the rejected transition")

	_, err = f.svc.UpdateTracking(context.Background(), TrackingInput{OrderID: created.ID, TrackingNumber: "  "})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestDetailIsStableAcrossReads(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	first := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{SizeName: "30", Price: 100000, Stock: 10})
	second := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{SizeName: "32", Price: 120000, Stock: 10})

	input := manualInput(
		ManualOrderItem{VariantID: second.ID, Quantity: 1},
		ManualOrderItem{VariantID: first.ID, Quantity: 2},
	)
	input.Taxes = []ChargeLine{{Description: "PPN", Amount: money(1000)}, {Description: "Bea", Amount: money(2000)}}
	input.Discounts = []ChargeLine{{Description: "Promo", Amount: money(500)}, {Description: "Member", Amount: money(700)}}
	created := f.createOrder(t, input)
	f.transition(t, created.ID, enums.OrderStatusProcessing)

	ctx := context.Background()
	a, err := f.svc.Detail(ctx, created.ID)
	require.NoError(t, err)
	b, err := f.svc.Detail(ctx, created.ID)
	require.NoError(t, err)

	for name, pair := range map[string][2]any{
		"items":     {a.Items, b.Items},
		"taxes":     {a.Taxes, b.Taxes},
		"discounts": {a.Discounts, b.Discounts},
		"history":   {a.History, b.History},
	} {
		left, err := json.Marshal(pair[0])
		require.NoError(t, err)
		right, err := json.Marshal(pair[1])
		require.NoError(t, err)
		assert.Equal(t, string(left), string(right), name)
	}

	require.Len(t, a.Items, 2)
	assert.Equal(t, "32", a.Items[0].SizeName, "items keep insertion order")
	require.Len(t, a.Taxes, 2)
	assert.Equal(t, "PPN", a.Taxes[0].Description)
	assert.Equal(t, 1, a.Taxes[1].SortOrder)
	require.Len(t, a.History, 2)
	assert.Equal(t, enums.OrderStatusProcessing, a.History[1].Status)
	require.NotNil(t, a.Payment)
	require.NotNil(t, a.Shipping)

	_, err = f.svc.Detail(ctx, 999)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestListOrders(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	variant := dbtest.SeedVariant(t, f.conn, dbtest.VariantSeed{Price: 100000, Stock: 50})
	ctx := context.Background()

	var ids []uint64
	for qty := 1; qty <= 3; qty++ {
		input := manualInput(ManualOrderItem{VariantID: variant.ID, Quantity: qty})
		if qty == 2 {
			input.CustomerName = "Rina Wijaya"
		}
		ids = append(ids, f.createOrder(t, input).ID)
	}
	f.transition(t, ids[0], enums.OrderStatusCancelled)

	all, err := f.svc.List(ctx, ListFilters{Sort: "total_amount", Order: "asc"}, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Pagination.Total)
	assert.Equal(t, 2, all.Pagination.TotalPages)
	require.Len(t, all.Orders, 2)
	assert.Equal(t, ids[0], all.Orders[0].ID)
	assert.Equal(t, 1, all.Orders[0].ItemCount)
	assert.Equal(t, ids[1], all.Orders[1].ID)

	cancelled := enums.OrderStatusCancelled
	filtered, err := f.svc.List(ctx, ListFilters{Status: &cancelled}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, filtered.Orders, 1)
	assert.Equal(t, ids[0], filtered.Orders[0].ID)

	searched, err := f.svc.List(ctx, ListFilters{Search: "Rina"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, searched.Orders, 1)
	assert.Equal(t, ids[1], searched.Orders[0].ID)
	assert.Equal(t, 2, searched.Orders[0].ItemCount)

	_, err = f.svc.List(ctx, ListFilters{Sort: "customer_phone"}, pagination.Params{})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	_, err = f.svc.List(ctx, ListFilters{Order: "sideways"}, pagination.Params{})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
