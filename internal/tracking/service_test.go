package tracking

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/denimhub/denimhub-backend/pkg/db/dbtest"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var token = strings.Repeat("ab12", 16)

func seedTrackedOrder(t *testing.T, conn *gorm.DB) models.Order {
	t.Helper()
	tracking := "JNE-0042"
	order := models.Order{
		OrderNumber:   "ORD-20261017-0042",
		UniqueToken:   token,
		CustomerName:  "Sari",
		CustomerPhone: "0812",
		Status:        enums.OrderStatusShipped,
		PaymentStatus: enums.PaymentStatusPaid,
		Currency:      enums.CurrencyIDR,
		Subtotal:      decimal.NewFromInt(450000),
		TotalAmount:   decimal.NewFromInt(470000),
		Items: []models.OrderItem{{
			ProductName: "Slim Fit Jeans",
			SizeName:    "32",
			ProductSKU:  "SLIM-32",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(450000),
			UnitCost:    decimal.NewFromInt(200000),
			Subtotal:    decimal.NewFromInt(450000),
		}},
		Shipping: &models.OrderShipping{
			RecipientName:  "Sari",
			Phone:          "0812",
			Address:        "Jl. Melati 3",
			City:           "Bandung",
			Courier:        "JNE",
			TrackingNumber: &tracking,
		},
		History: []models.OrderShippingHistory{
			{Status: enums.OrderStatusConfirmed, Title: "Order created"},
			{Status: enums.OrderStatusShipped, Title: enums.OrderStatusShipped.Title(), Description: "No. Resi: JNE-0042"},
		},
	}
	require.NoError(t, conn.Create(&order).Error)
	return order
}

func TestLookupProjectsPublicFields(t *testing.T) {
	client := dbtest.Open(t)
	seedTrackedOrder(t, client.DB())

	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)

	got, err := svc.Lookup(context.Background(), strings.ToUpper(token))
	require.NoError(t, err)

	assert.Equal(t, "ORD-20261017-0042", got.OrderNumber)
	assert.Equal(t, enums.OrderStatusShipped, got.Status)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Slim Fit Jeans", got.Items[0].ProductName)
	require.NotNil(t, got.Shipping)
	assert.Equal(t, "JNE-0042", *got.Shipping.TrackingNumber)
	require.Len(t, got.History, 2)
	assert.Equal(t, "No. Resi: JNE-0042", got.History[1].Description)

	body, err := json.Marshal(got)
	require.NoError(t, err)
	for _, hidden := range []string{token, "unit_cost", "customer_phone", `"id"`, "Jl. Melati"} {
		assert.NotContains(t, string(body), hidden)
	}
}

func TestLookupErrors(t *testing.T) {
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Lookup(ctx, "short")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.Lookup(ctx, strings.Repeat("zz", 32))
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.Lookup(ctx, strings.Repeat("0", 64))
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
