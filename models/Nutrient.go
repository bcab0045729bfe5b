package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Nutrient is an immutable per-100g nutrient measurement for a food.
// ID and Number identify the nutrient in the source database when known.
type Nutrient struct {
	Name   string          `json:"name"`
	Unit   string          `json:"unit"`
	Amount decimal.Decimal `json:"amount"`
	ID     *int64          `json:"id,omitempty"`
	Number string          `json:"number,omitempty"`
}

// NewNutrient validates and builds a Nutrient.
func NewNutrient(name, unit string, amount decimal.Decimal) (Nutrient, error) {
	if name == "" {
		return Nutrient{}, fmt.Errorf("nutrient name cannot be empty")
	}
	if unit == "" {
		return Nutrient{}, fmt.Errorf("nutrient unit cannot be empty")
	}
	if amount.IsNegative() {
		return Nutrient{}, fmt.Errorf("nutrient amount cannot be negative: %s", amount)
	}

	return Nutrient{Name: name, Unit: unit, Amount: amount}, nil
}

// Scale returns a copy with the amount multiplied by factor.
func (n Nutrient) Scale(factor decimal.Decimal) Nutrient {
	n.Amount = n.Amount.Mul(factor)
	return n
}
