package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Ingredient ties a food to a quantity inside one formulation. The food is
// shared and read-only; the ingredient itself is owned by its formulation
// and mutated by the redistribution and cost services.
//
// The cost fields describe how the ingredient is purchased (a pack of
// CostPackAmount CostPackUnit for CostValue in CostCurrencySymbol).
// CostPerGram is derived by the cost engine in base currency and stays nil
// while the purchase data is incomplete.
type Ingredient struct {
	Food               *Food            `json:"food"`
	AmountG            decimal.Decimal  `json:"amount_g"`
	Locked             bool             `json:"locked"`
	CostPackAmount     *decimal.Decimal `json:"cost_pack_amount,omitempty"`
	CostPackUnit       string           `json:"cost_pack_unit,omitempty"`
	CostValue          *decimal.Decimal `json:"cost_value,omitempty"`
	CostCurrencySymbol string           `json:"cost_currency_symbol,omitempty"`
	CostPerGram        *decimal.Decimal `json:"cost_per_g,omitempty"`
}

// NewIngredient validates and builds an Ingredient.
func NewIngredient(food *Food, amountG decimal.Decimal) (*Ingredient, error) {
	if food == nil {
		return nil, fmt.Errorf("ingredient food cannot be nil")
	}
	if amountG.IsNegative() {
		return nil, fmt.Errorf("ingredient amount cannot be negative: %s", amountG)
	}

	return &Ingredient{Food: food, AmountG: amountG}, nil
}

// FDCID is a convenience accessor for the food's FDC ID.
func (i *Ingredient) FDCID() int64 {
	return i.Food.FDCID
}

// Description is a convenience accessor for the food's description.
func (i *Ingredient) Description() string {
	return i.Food.Description
}

// Percentage returns the ingredient's share of the given total weight.
func (i *Ingredient) Percentage(totalWeight decimal.Decimal) decimal.Decimal {
	if totalWeight.IsZero() {
		return decimal.Zero
	}
	return i.AmountG.Div(totalWeight).Mul(decimal.NewFromInt(100))
}

// NutrientAmount returns the named nutrient scaled from the food's
// per-100g basis to this ingredient's actual amount.
func (i *Ingredient) NutrientAmount(name string) decimal.Decimal {
	nutrient := i.Food.Nutrient(name)
	if nutrient == nil {
		return decimal.Zero
	}
	return nutrient.Amount.Mul(i.AmountG.Div(decimal.NewFromInt(100)))
}
