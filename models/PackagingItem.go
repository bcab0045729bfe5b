package models

import "github.com/shopspring/decimal"

// PackagingItem is a packaging component consumed per pack sold. The unit
// cost is expressed in Currency; an empty symbol means base currency.
type PackagingItem struct {
	Name            string          `json:"name"`
	QuantityPerPack decimal.Decimal `json:"quantity_per_pack"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Currency        string          `json:"currency,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}
