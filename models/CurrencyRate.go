package models

import "github.com/shopspring/decimal"

// Base currency. Every formulation carries exactly one "$" rate pinned
// to 1; all other rates convert into it.
const (
	BaseCurrencySymbol = "$"
	BaseCurrencyName   = "Base"
)

// CurrencyRate converts a foreign currency symbol into base currency.
type CurrencyRate struct {
	Name       string          `json:"name"`
	Symbol     string          `json:"symbol"`
	RateToBase decimal.Decimal `json:"rate_to_base"`
}

// BaseCurrencyRate returns the pinned base-currency entry.
func BaseCurrencyRate() CurrencyRate {
	return CurrencyRate{
		Name:       BaseCurrencyName,
		Symbol:     BaseCurrencySymbol,
		RateToBase: decimal.NewFromInt(1),
	}
}
