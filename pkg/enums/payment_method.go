package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod records how an offline order is expected to be paid.
type PaymentMethod string

const (
	PaymentMethodManual       PaymentMethod = "manual"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCOD          PaymentMethod = "cod"
	PaymentMethodEWallet      PaymentMethod = "e_wallet"
	PaymentMethodQRIS         PaymentMethod = "qris"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodManual,
	PaymentMethodBankTransfer,
	PaymentMethodCash,
	PaymentMethodCOD,
	PaymentMethodEWallet,
	PaymentMethodQRIS,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod. Blank input is the manual method.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return PaymentMethodManual, nil
	}
	for _, candidate := range validPaymentMethods {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
