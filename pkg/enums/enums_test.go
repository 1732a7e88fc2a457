package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusParseAndTitle(t *testing.T) {
	for _, status := range OrderStatuses() {
		parsed, err := ParseOrderStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
		assert.NotEqual(t, string(status), status.Title(), "missing title for %s", status)
	}

	_, err := ParseOrderStatus("refunded")
	require.Error(t, err)
	assert.Equal(t, "Pesanan Dibatalkan", OrderStatusCancelled.Title())
	assert.Equal(t, "Sedang Diantar", OrderStatusOutForDelivery.Title())
}

func TestOrderStatusShippedGroup(t *testing.T) {
	shipped := map[OrderStatus]bool{
		OrderStatusShipped:        true,
		OrderStatusInTransit:      true,
		OrderStatusOutForDelivery: true,
		OrderStatusDelivered:      true,
	}
	for _, status := range OrderStatuses() {
		assert.Equal(t, shipped[status], status.HasShipped(), status.String())
	}
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusDelivered.IsTerminal())
}

func TestCurrencyForCountry(t *testing.T) {
	assert.Equal(t, CurrencyIDR, CurrencyForCountry(""))
	assert.Equal(t, CurrencyIDR, CurrencyForCountry("Indonesia"))
	assert.Equal(t, CurrencyUSD, CurrencyForCountry("Singapore"))

	c, err := ParseCurrency(" usd ")
	require.NoError(t, err)
	assert.Equal(t, CurrencyUSD, c)
}

func TestUserRoleCanAdminister(t *testing.T) {
	assert.True(t, UserRoleAdmin.CanAdminister())
	assert.True(t, UserRoleStaff.CanAdminister())
	assert.False(t, UserRoleGuest.CanAdminister())
}

func TestParsePaymentMethod(t *testing.T) {
	method, err := ParsePaymentMethod("")
	assert.NoError(t, err)
	assert.Equal(t, PaymentMethodManual, method)

	method, err = ParsePaymentMethod(" Bank_Transfer ")
	assert.NoError(t, err)
	assert.Equal(t, PaymentMethodBankTransfer, method)

	_, err = ParsePaymentMethod("crypto")
	assert.Error(t, err)
}
