// Package costing converts purchase and process data into base-currency
// batch and per-unit costs. Incomplete entries produce nil costs and are
// counted, never treated as zero, so callers can report coverage.
package costing

import (
	"strings"

	"github.com/shopspring/decimal"

	"formulator/internal/units"
	"formulator/models"
)

var (
	sixty      = decimal.NewFromInt(60)
	oneHundred = decimal.NewFromInt(100)
)

// RateMap builds the symbol-to-base-rate lookup. The base symbol is
// always present with rate 1; entries with blank symbols or non-positive
// rates are skipped.
func RateMap(rates []models.CurrencyRate) map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{models.BaseCurrencySymbol: decimal.NewFromInt(1)}
	for _, rate := range rates {
		symbol := strings.TrimSpace(rate.Symbol)
		if symbol == "" {
			continue
		}
		if symbol == models.BaseCurrencySymbol {
			out[symbol] = decimal.NewFromInt(1)
			continue
		}
		if rate.RateToBase.Sign() <= 0 {
			continue
		}
		out[symbol] = rate.RateToBase
	}
	return out
}

// ConvertToBase converts a value in the given currency to base currency.
// A blank symbol means base currency. Unknown symbols yield nil.
func ConvertToBase(value decimal.Decimal, symbol string, rates []models.CurrencyRate) *decimal.Decimal {
	currency := strings.TrimSpace(symbol)
	if currency == "" {
		currency = models.BaseCurrencySymbol
	}
	rate, ok := RateMap(rates)[currency]
	if !ok || rate.Sign() <= 0 {
		return nil
	}
	converted := value.Mul(rate)
	return &converted
}

// IngredientCostPerGram derives the base-currency cost of one gram of the
// ingredient from its purchase data. Any missing or non-positive field
// yields nil.
func IngredientCostPerGram(ing *models.Ingredient, rates []models.CurrencyRate) *decimal.Decimal {
	if ing.CostPackAmount == nil || ing.CostValue == nil {
		return nil
	}
	if ing.CostPackAmount.Sign() <= 0 || ing.CostValue.Sign() <= 0 {
		return nil
	}

	unit := units.NormalizeMassUnit(ing.CostPackUnit)
	if unit == "" {
		return nil
	}
	packGrams, ok := units.MassToGrams(*ing.CostPackAmount, unit)
	if !ok || packGrams.Sign() <= 0 {
		return nil
	}

	symbol := strings.TrimSpace(ing.CostCurrencySymbol)
	if symbol == "" {
		return nil
	}
	rate, ok := RateMap(rates)[symbol]
	if !ok || rate.Sign() <= 0 {
		return nil
	}

	perGram := ing.CostValue.Mul(rate).Div(packGrams)
	return &perGram
}

// UpdateIngredientCost normalizes the ingredient's purchase fields in
// place and refreshes its derived per-gram cost.
func UpdateIngredientCost(ing *models.Ingredient, rates []models.CurrencyRate) {
	ing.CostPackUnit = units.NormalizeMassUnit(ing.CostPackUnit)
	ing.CostCurrencySymbol = strings.TrimSpace(ing.CostCurrencySymbol)
	ing.CostPerGram = IngredientCostPerGram(ing, rates)
}

// TotalIngredientsCostBatch refreshes every ingredient's derived cost and
// sums the batch ingredient cost in base currency, returning the count of
// ingredients with no resolvable cost alongside.
func TotalIngredientsCostBatch(f *models.Formulation) (decimal.Decimal, int) {
	total := decimal.Zero
	missing := 0
	for _, ing := range f.Ingredients {
		UpdateIngredientCost(ing, f.CurrencyRates)
		if ing.CostPerGram == nil {
			missing++
			continue
		}
		total = total.Add(ing.CostPerGram.Mul(ing.AmountG))
	}
	return total, missing
}

// timeToHours converts a positive duration to hours. Only "h" and "min"
// are accepted.
func timeToHours(value *decimal.Decimal, unit string) *decimal.Decimal {
	if value == nil || value.Sign() <= 0 {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case models.TimeUnitHours:
		return value
	case models.TimeUnitMinutes:
		hours := value.Div(sixty)
		return &hours
	}
	return nil
}

// resolvedFixed is a fixed process with any derivable field filled in.
type resolvedFixed struct {
	TimeHours   *decimal.Decimal
	CostPerHour *decimal.Decimal
	Total       *decimal.Decimal
}

// resolveFixed back-solves the missing one of time, hourly rate and
// total whenever at least two are present. An explicit total always
// wins.
func resolveFixed(p models.ProcessCost) resolvedFixed {
	timeH := timeToHours(p.TimeValue, p.TimeUnit)
	costH := p.CostPerHour
	total := p.TotalCost

	present := 0
	for _, ok := range []bool{timeH != nil, costH != nil, total != nil} {
		if ok {
			present++
		}
	}
	if present >= 2 {
		switch {
		case total == nil && timeH != nil && costH != nil:
			v := timeH.Mul(*costH)
			total = &v
		case costH == nil && timeH != nil && total != nil && timeH.Sign() > 0:
			v := total.Div(*timeH)
			costH = &v
		case timeH == nil && costH != nil && total != nil && costH.Sign() > 0:
			v := total.Div(*costH)
			timeH = &v
		}
	}
	return resolvedFixed{TimeHours: timeH, CostPerHour: costH, Total: total}
}

// ProcessTotalCost computes the base-currency cost of one process step
// for a batch of the given mass. Incomplete entries yield nil.
func ProcessTotalCost(p models.ProcessCost, batchMassKg decimal.Decimal) *decimal.Decimal {
	switch models.ScaleType(strings.ToUpper(strings.TrimSpace(string(p.ScaleType)))) {
	case models.ScaleFixed:
		return resolveFixed(p).Total
	case models.ScaleVariablePerKg:
		timePerKgH := timeToHours(p.TimePerKgValue, p.TimeUnit)
		if timePerKgH == nil || p.CostPerHour == nil {
			return nil
		}
		total := timePerKgH.Mul(batchMassKg).Mul(*p.CostPerHour)
		return &total
	case models.ScaleMixed:
		setupH := timeToHours(p.SetupTimeValue, p.SetupTimeUnit)
		timePerKgH := timeToHours(p.TimePerKgValue, p.TimeUnit)
		if setupH == nil || timePerKgH == nil || p.CostPerHour == nil {
			return nil
		}
		total := setupH.Add(timePerKgH.Mul(batchMassKg)).Mul(*p.CostPerHour)
		return &total
	}
	return nil
}

// TotalProcessCostBatch sums resolvable process costs for the current
// batch mass, returning the count of incomplete entries alongside.
func TotalProcessCostBatch(f *models.Formulation) (decimal.Decimal, int) {
	total := decimal.Zero
	incomplete := 0
	batchMassKg := batchMassKilograms(f)
	for _, p := range f.ProcessCosts {
		cost := ProcessTotalCost(p, batchMassKg)
		if cost == nil {
			incomplete++
			continue
		}
		total = total.Add(*cost)
	}
	return total, incomplete
}

func batchMassKilograms(f *models.Formulation) decimal.Decimal {
	kg, ok := units.MassToKilograms(f.TotalWeight(), "g")
	if !ok {
		return decimal.Zero
	}
	return kg
}

// TotalBatchCost is the ingredient plus process cost of the whole batch
// in base currency. Incomplete entries contribute nothing.
func TotalBatchCost(f *models.Formulation) decimal.Decimal {
	ingredients, _ := TotalIngredientsCostBatch(f)
	processes, _ := TotalProcessCostBatch(f)
	return ingredients.Add(processes)
}

// PackagingUnitCost converts one packaging item's unit cost to base
// currency. A blank currency means base currency.
func PackagingUnitCost(item models.PackagingItem, rates []models.CurrencyRate) *decimal.Decimal {
	return ConvertToBase(item.UnitCost, item.Currency, rates)
}

// Completeness reports how many entries of a cost category resolve to a
// concrete cost.
type Completeness struct {
	Defined int
	Missing int
	Percent decimal.Decimal
}

// IngredientCompleteness refreshes derived ingredient costs and reports
// how many ingredients have a resolvable per-gram cost.
func IngredientCompleteness(f *models.Formulation) Completeness {
	if len(f.Ingredients) == 0 {
		return Completeness{}
	}
	c := Completeness{}
	for _, ing := range f.Ingredients {
		UpdateIngredientCost(ing, f.CurrencyRates)
		if ing.CostPerGram == nil {
			c.Missing++
		} else {
			c.Defined++
		}
	}
	c.Percent = decimal.NewFromInt(int64(c.Defined)).Div(decimal.NewFromInt(int64(len(f.Ingredients)))).Mul(oneHundred)
	return c
}

// ProcessCompleteness reports how many process entries resolve for the
// current batch mass.
func ProcessCompleteness(f *models.Formulation) Completeness {
	if len(f.ProcessCosts) == 0 {
		return Completeness{}
	}
	c := Completeness{}
	batchMassKg := batchMassKilograms(f)
	for _, p := range f.ProcessCosts {
		if ProcessTotalCost(p, batchMassKg) == nil {
			c.Missing++
		} else {
			c.Defined++
		}
	}
	c.Percent = decimal.NewFromInt(int64(c.Defined)).Div(decimal.NewFromInt(int64(len(f.ProcessCosts)))).Mul(oneHundred)
	return c
}

// UnitCosts is the cost breakdown of one sellable unit of targetMass
// grams plus its packaging.
type UnitCosts struct {
	BatchMassG         decimal.Decimal
	SellableMassG      decimal.Decimal
	TargetMassG        decimal.Decimal
	UnitsCount         decimal.Decimal
	IngredientsPerUnit decimal.Decimal
	ProcessPerUnit     decimal.Decimal
	TotalPerUnit       decimal.Decimal
	PackagingPerPack   decimal.Decimal
	TotalPackCost      decimal.Decimal
}

// UnitCostsForTargetMass splits the batch cost over the sellable units a
// batch yields at the formulation's yield percentage, then adds the
// packaging cost of one pack.
func UnitCostsForTargetMass(f *models.Formulation, targetMass decimal.Decimal, targetMassUnit string) UnitCosts {
	out := UnitCosts{BatchMassG: f.TotalWeight()}

	if targetG, ok := units.MassToGrams(targetMass, targetMassUnit); ok && targetG.Sign() > 0 {
		out.TargetMassG = targetG
	}

	yield := f.YieldPercent
	if yield.Sign() <= 0 {
		yield = decimal.Zero
	} else if yield.GreaterThan(oneHundred) {
		yield = oneHundred
	}
	out.SellableMassG = out.BatchMassG.Mul(yield).Div(oneHundred)

	if out.TargetMassG.Sign() > 0 && out.SellableMassG.Sign() > 0 {
		out.UnitsCount = out.SellableMassG.Div(out.TargetMassG)
	}

	ingredientsTotal, _ := TotalIngredientsCostBatch(f)
	processesTotal, _ := TotalProcessCostBatch(f)
	if out.UnitsCount.Sign() > 0 {
		out.IngredientsPerUnit = ingredientsTotal.Div(out.UnitsCount)
		out.ProcessPerUnit = processesTotal.Div(out.UnitsCount)
	}
	out.TotalPerUnit = out.IngredientsPerUnit.Add(out.ProcessPerUnit)

	for _, item := range f.PackagingItems {
		unitCost := PackagingUnitCost(item, f.CurrencyRates)
		if unitCost == nil {
			continue
		}
		out.PackagingPerPack = out.PackagingPerPack.Add(item.QuantityPerPack.Mul(*unitCost))
	}
	out.TotalPackCost = out.TotalPerUnit.Add(out.PackagingPerPack)
	return out
}
