package nutrient

import (
	"github.com/shopspring/decimal"

	"formulator/internal/units"
	"formulator/models"
)

// TotalsPer100g aggregates ingredient nutrients into formulation totals
// per 100 g of finished product. Source amounts are per 100 g of each
// ingredient, so each is scaled by the ingredient weight before the sum
// is re-expressed against the formulation's total weight. Empty
// formulations and zero total weight yield an empty map.
func TotalsPer100g(f *models.Formulation) map[string]decimal.Decimal {
	if f.IsEmpty() {
		return map[string]decimal.Decimal{}
	}
	totalWeight := f.TotalWeight()
	if totalWeight.IsZero() {
		return map[string]decimal.Decimal{}
	}

	sums := make(map[string]decimal.Decimal)
	for _, ing := range f.Ingredients {
		scale := ing.AmountG.Div(oneHundred)
		for _, n := range ing.Food.Nutrients {
			sums[n.Name] = sums[n.Name].Add(n.Amount.Mul(scale))
		}
	}

	factor := oneHundred.Div(totalWeight)
	totals := make(map[string]decimal.Decimal, len(sums))
	for name, amount := range sums {
		totals[name] = amount.Mul(factor)
	}
	return totals
}

// PerIngredient returns each ingredient's absolute nutrient amounts
// (scaled from the per-100g basis to the ingredient weight, not
// normalized), indexed by ingredient position.
func PerIngredient(f *models.Formulation) []map[string]decimal.Decimal {
	result := make([]map[string]decimal.Decimal, len(f.Ingredients))
	for idx, ing := range f.Ingredients {
		scale := ing.AmountG.Div(oneHundred)
		amounts := make(map[string]decimal.Decimal, len(ing.Food.Nutrients))
		for _, n := range ing.Food.Nutrients {
			amounts[n.Name] = n.Amount.Mul(scale)
		}
		result[idx] = amounts
	}
	return result
}

// Energy converts macro masses to energy with the 4-9-4 Atwater factors.
func Energy(proteinG, carbohydrateG, fatG decimal.Decimal) (kcal, kj decimal.Decimal) {
	kcal = proteinG.Mul(atwaterProtein).
		Add(carbohydrateG.Mul(atwaterCarbohydrate)).
		Add(fatG.Mul(atwaterFat))
	return kcal, kcal.Mul(units.KcalToKJ)
}
