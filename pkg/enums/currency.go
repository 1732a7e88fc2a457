package enums

import (
	"fmt"
	"strings"
)

// Currency represents supported monetary denominations for orders and rates.
type Currency string

const (
	CurrencyIDR Currency = "IDR"
	CurrencyUSD Currency = "USD"
)

// DomesticCountry is the shipping country billed in rupiah.
const DomesticCountry = "Indonesia"

var validCurrencies = []Currency{
	CurrencyIDR,
	CurrencyUSD,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts a raw string into a Currency. Matching is case-insensitive.
func ParseCurrency(value string) (Currency, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validCurrencies {
		if string(candidate) == upper {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}

// CurrencyForCountry bills foreign shipments in USD and everything else in IDR.
func CurrencyForCountry(country string) Currency {
	country = strings.TrimSpace(country)
	if country != "" && country != DomesticCountry {
		return CurrencyUSD
	}
	return CurrencyIDR
}
