// Package units provides locale-tolerant number parsing, canonical unit
// strings and mass/energy conversion for the formulation engine.
package units

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MicroGram is the canonical symbol for the microgram alias set.
const MicroGram = "μg"

// KcalToKJ is the kilocalorie to kilojoule conversion constant.
var KcalToKJ = decimal.RequireFromString("4.184")

var microAliases = map[string]struct{}{
	"ug":       {},
	"mcg":      {},
	"µg":  {}, // micro sign
	"μg":  {}, // greek mu
	"æg":  {}, // legacy encoding artifact seen in source exports
}

var massUnitAliases = map[string]string{
	"g":          "g",
	"gram":       "g",
	"grams":      "g",
	"gramo":      "g",
	"gramos":     "g",
	"kg":         "kg",
	"kilogram":   "kg",
	"kilograms":  "kg",
	"kilogramo":  "kg",
	"kilogramos": "kg",
	"t":          "ton",
	"tn":         "ton",
	"ton":        "ton",
	"tonne":      "ton",
	"tonnes":     "ton",
	"tonelada":   "ton",
	"toneladas":  "ton",
	"lb":         "lb",
	"lbs":        "lb",
	"libra":      "lb",
	"libras":     "lb",
	"pound":      "lb",
	"pounds":     "lb",
	"oz":         "oz",
	"onza":       "oz",
	"onzas":      "oz",
	"ounce":      "oz",
	"ounces":     "oz",
	"mg":         "mg",
}

var massUnitToGrams = map[string]decimal.Decimal{
	MicroGram: decimal.RequireFromString("0.000001"),
	"mg":      decimal.RequireFromString("0.001"),
	"g":       decimal.NewFromInt(1),
	"kg":      decimal.NewFromInt(1000),
	"ton":     decimal.NewFromInt(1000000),
	"lb":      decimal.RequireFromString("453.59237"),
	"oz":      decimal.RequireFromString("28.349523125"),
}

// Mass units accepted for formulation quantities and pack sizes.
var formulationMassUnits = map[string]struct{}{
	"g":   {},
	"kg":  {},
	"ton": {},
	"lb":  {},
	"oz":  {},
}

var energyUnits = map[string]struct{}{
	"kcal": {},
	"kJ":   {},
}

// CanonicalUnit maps case and alias variants of a unit string onto one
// representative form. Unrecognized tokens pass through lower-cased.
func CanonicalUnit(unit string) string {
	cleaned := strings.TrimSpace(unit)
	if cleaned == "" {
		return ""
	}

	lower := strings.ToLower(cleaned)
	if _, ok := microAliases[lower]; ok {
		return MicroGram
	}
	switch lower {
	case "kj", "kilojoule", "kilojoules":
		return "kJ"
	case "kcal", "kilocalorie", "kilocalories":
		return "kcal"
	case "iu":
		return "iu"
	}
	if canonical, ok := massUnitAliases[lower]; ok {
		return canonical
	}
	return lower
}

// NormalizeMassUnit canonicalizes a mass unit usable for formulation
// quantities. Units outside the accepted set yield "".
func NormalizeMassUnit(unit string) string {
	canonical, ok := massUnitAliases[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return ""
	}
	if _, ok := formulationMassUnits[canonical]; !ok {
		return ""
	}
	return canonical
}

// ConvertMass converts a mass value between units via the fixed
// gram-equivalence table. The second return is false when either unit is
// unknown.
func ConvertMass(value decimal.Decimal, fromUnit, toUnit string) (decimal.Decimal, bool) {
	source := CanonicalUnit(fromUnit)
	target := CanonicalUnit(toUnit)
	if source == "" || target == "" {
		return decimal.Decimal{}, false
	}
	if source == target {
		return value, true
	}

	sourceFactor, ok := massUnitToGrams[source]
	if !ok {
		return decimal.Decimal{}, false
	}
	targetFactor, ok := massUnitToGrams[target]
	if !ok {
		return decimal.Decimal{}, false
	}
	return value.Mul(sourceFactor).Div(targetFactor), true
}

// ConvertAmount converts between compatible units: any two mass units,
// or kcal and kJ.
func ConvertAmount(value decimal.Decimal, fromUnit, toUnit string) (decimal.Decimal, bool) {
	source := CanonicalUnit(fromUnit)
	target := CanonicalUnit(toUnit)
	if source == "" || target == "" {
		return decimal.Decimal{}, false
	}
	if source == target {
		return value, true
	}

	_, sourceMass := massUnitToGrams[source]
	_, targetMass := massUnitToGrams[target]
	if sourceMass && targetMass {
		return ConvertMass(value, source, target)
	}

	_, sourceEnergy := energyUnits[source]
	_, targetEnergy := energyUnits[target]
	if sourceEnergy && targetEnergy {
		if source == "kcal" {
			return value.Mul(KcalToKJ), true
		}
		return value.Div(KcalToKJ), true
	}

	return decimal.Decimal{}, false
}

// MassToGrams converts a value in the given mass unit to grams.
func MassToGrams(value decimal.Decimal, unit string) (decimal.Decimal, bool) {
	return ConvertMass(value, unit, "g")
}

// MassToKilograms converts a value in the given mass unit to kilograms.
func MassToKilograms(value decimal.Decimal, unit string) (decimal.Decimal, bool) {
	return ConvertMass(value, unit, "kg")
}
