package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is a display currency. Prices are always stored in the base unit (USD).
type Currency string

const (
	USD Currency = "USD"
	SAR Currency = "SAR"
)

// DefaultCurrency is selected for every new cart.
const DefaultCurrency = USD

// ErrUnsupportedCurrency is returned for codes outside the rate table.
var ErrUnsupportedCurrency = errors.New("cart: unsupported currency")

type currencyInfo struct {
	rate   decimal.Decimal
	symbol string
}

// Fixed conversion table from the base unit. Rates are configuration constants.
var currencies = map[Currency]currencyInfo{
	USD: {rate: decimal.RequireFromString("1.00"), symbol: "$"},
	SAR: {rate: decimal.RequireFromString("3.75"), symbol: "﷼"},
}

// Currencies lists supported display currencies in menu order.
func Currencies() []Currency {
	return []Currency{USD, SAR}
}

// ParseCurrency validates a currency code, accepting any letter case.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := currencies[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return c, nil
}

// Symbol returns the display symbol, or the code itself for unknown currencies.
func (c Currency) Symbol() string {
	if info, ok := currencies[c]; ok {
		return info.symbol
	}
	return string(c)
}

// Rate returns the multiplier applied to base-unit amounts.
func (c Currency) Rate() decimal.Decimal {
	if info, ok := currencies[c]; ok {
		return info.rate
	}
	return decimal.NewFromInt(1)
}

// Convert turns a base-unit amount into c, rounded to two decimals.
func (c Currency) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.Rate()).Round(2)
}
