package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity modes for editing and displaying ingredient quantities.
const (
	QuantityModeGrams   = "g"
	QuantityModePercent = "%"
)

// Formulation is a named, weighted mixture of ingredients together with
// its production costs. It exclusively owns its ingredients, costs and
// currency rates; callers must serialize concurrent access.
type Formulation struct {
	Name           string          `json:"name"`
	Ingredients    []*Ingredient   `json:"ingredients"`
	QuantityMode   string          `json:"quantity_mode"`
	YieldPercent   decimal.Decimal `json:"yield_percent"`
	ProcessCosts   []ProcessCost   `json:"process_costs,omitempty"`
	PackagingItems []PackagingItem `json:"packaging_items,omitempty"`
	CurrencyRates  []CurrencyRate  `json:"currency_rates"`
}

// NewFormulation builds an empty formulation in grams mode with 100%
// yield and the base currency rate.
func NewFormulation(name string) (*Formulation, error) {
	if name == "" {
		return nil, fmt.Errorf("formulation name cannot be empty")
	}

	f := &Formulation{
		Name:         name,
		QuantityMode: QuantityModeGrams,
		YieldPercent: decimal.NewFromInt(100),
	}
	f.EnsureCurrencyRates()
	return f, nil
}

// Validate checks the formulation invariants, repairing the two
// self-healing fields (yield percent and currency rates) instead of
// failing on them. Used after deserialization.
func (f *Formulation) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("formulation name cannot be empty")
	}
	if f.QuantityMode != QuantityModeGrams && f.QuantityMode != QuantityModePercent {
		return fmt.Errorf("invalid quantity mode: %q", f.QuantityMode)
	}
	f.SetYieldPercent(f.YieldPercent)
	f.EnsureCurrencyRates()
	return nil
}

// SetYieldPercent stores the sellable-yield percentage. Out-of-range
// values are reset to 100 rather than rejected.
func (f *Formulation) SetYieldPercent(percent decimal.Decimal) {
	if percent.Sign() <= 0 || percent.GreaterThan(decimal.NewFromInt(100)) {
		f.YieldPercent = decimal.NewFromInt(100)
		return
	}
	f.YieldPercent = percent
}

// EnsureCurrencyRates repairs the rate list so that symbols are unique,
// blank symbols are dropped and exactly one "$" entry exists with rate 1.
func (f *Formulation) EnsureCurrencyRates() {
	seen := make(map[string]struct{}, len(f.CurrencyRates))
	cleaned := make([]CurrencyRate, 0, len(f.CurrencyRates)+1)

	for _, rate := range f.CurrencyRates {
		symbol := strings.TrimSpace(rate.Symbol)
		if symbol == "" {
			continue
		}
		if symbol == BaseCurrencySymbol {
			rate = BaseCurrencyRate()
		} else {
			rate.Symbol = symbol
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		cleaned = append(cleaned, rate)
	}

	if _, ok := seen[BaseCurrencySymbol]; !ok {
		cleaned = append([]CurrencyRate{BaseCurrencyRate()}, cleaned...)
	}
	f.CurrencyRates = cleaned
}

// SetCurrencyRates replaces the rate list and repairs it.
func (f *Formulation) SetCurrencyRates(rates []CurrencyRate) {
	f.CurrencyRates = rates
	f.EnsureCurrencyRates()
}

// TotalWeight is the sum of all ingredient amounts in grams.
func (f *Formulation) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, ing := range f.Ingredients {
		total = total.Add(ing.AmountG)
	}
	return total
}

// LockedWeight is the sum of locked ingredient amounts in grams.
func (f *Formulation) LockedWeight() decimal.Decimal {
	total := decimal.Zero
	for _, ing := range f.Ingredients {
		if ing.Locked {
			total = total.Add(ing.AmountG)
		}
	}
	return total
}

// IngredientCount returns the number of ingredients.
func (f *Formulation) IngredientCount() int {
	return len(f.Ingredients)
}

// IsEmpty reports whether the formulation has no ingredients.
func (f *Formulation) IsEmpty() bool {
	return len(f.Ingredients) == 0
}

// AddIngredient appends an ingredient.
func (f *Formulation) AddIngredient(ing *Ingredient) {
	f.Ingredients = append(f.Ingredients, ing)
}

// Ingredient returns the ingredient at index.
func (f *Formulation) Ingredient(index int) (*Ingredient, error) {
	if index < 0 || index >= len(f.Ingredients) {
		return nil, fmt.Errorf("invalid ingredient index: %d", index)
	}
	return f.Ingredients[index], nil
}

// RemoveIngredient deletes the ingredient at index.
func (f *Formulation) RemoveIngredient(index int) error {
	if index < 0 || index >= len(f.Ingredients) {
		return fmt.Errorf("invalid ingredient index: %d", index)
	}
	f.Ingredients = append(f.Ingredients[:index], f.Ingredients[index+1:]...)
	return nil
}

// Clear removes all ingredients.
func (f *Formulation) Clear() {
	f.Ingredients = nil
}
