package nutrient

import (
	"strings"

	"github.com/shopspring/decimal"

	"formulator/internal/units"
)

// Atwater factors and derivation constants.
var (
	atwaterProtein      = decimal.NewFromInt(4)
	atwaterCarbohydrate = decimal.NewFromInt(4)
	atwaterFat          = decimal.NewFromInt(9)
	proteinToNitrogen   = decimal.RequireFromString("6.25")
	oneHundred          = decimal.NewFromInt(100)
)

const (
	nameLipid = "total lipid (fat)"
	nameNLEA  = "total fat (nlea)"
)

// displayAliasNames maps known alias spellings to one display name so
// heterogeneous sources produce a single column. An empty value drops
// the row entirely.
var displayAliasNames = map[string]string{
	"sugars, total":                      "Sugars, Total",
	"total sugars":                       "Sugars, Total",
	"carbohydrate, by difference":        "Carbohydrate, by difference",
	"carbohydrate, by summation":         "Carbohydrate, by difference",
	"carbohydrate by summation":          "Carbohydrate, by difference",
	"energy (atwater general factors)":   "",
	"energy (atwater specific factors)":  "",
	"choline, from phosphotidyl choline": "Choline, from phosphatidyl choline",
}

// AliasName returns the display name for known aliases, the input name
// otherwise, and "" for rows that must be dropped.
func AliasName(name string) string {
	if mapped, ok := displayAliasNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return mapped
	}
	return name
}

// mergeAliasNames is the merge table for the alias step: aliases that
// collapse into one record.
var mergeAliasNames = map[string]string{
	"total sugars":                       "Sugars, Total",
	"sugars, total":                      "Sugars, Total",
	"cystine":                            "Cysteine",
	"cysteine":                           "Cysteine",
	"carbohydrate, by summation":         "Carbohydrate, by difference",
	"choline, from phosphotidyl choline": "Choline, from phosphatidyl choline",
}

var droppedEnergyNames = map[string]struct{}{
	"energy (atwater general factors)":  {},
	"energy (atwater specific factors)": {},
}

// Normalize runs the fixed-order augmentation pipeline over a raw
// nutrient record list: fat equivalence, canonical units, alias merge,
// nitrogen derivation, branded-food water estimate and Atwater energy.
// The input is not mutated. Re-running the pipeline on its own output
// changes nothing except the energy rows, which are always recomputed
// to the same values.
func Normalize(records []Record, dataType string) []Record {
	normalized := augmentFat(append([]Record(nil), records...))
	for i := range normalized {
		if canonical := units.CanonicalUnit(normalized[i].Nutrient.Unit); canonical != "" {
			normalized[i].Nutrient.Unit = canonical
		}
	}
	normalized = mergeAliases(normalized)
	normalized = augmentNitrogen(normalized)
	normalized = augmentBrandedWater(normalized, dataType)
	return augmentEnergy(normalized)
}

func insertRecord(list []Record, idx int, rec Record) []Record {
	if idx < 0 || idx > len(list) {
		idx = len(list)
	}
	list = append(list, Record{})
	copy(list[idx+1:], list[idx:])
	list[idx] = rec
	return list
}

// augmentFat treats "Total lipid (fat)" and "Total fat (NLEA)" as
// equivalent measurements: when exactly one carries an amount the other
// is cloned next to it, duplicates collapse to the first occurrence, and
// the pair keeps its original position.
func augmentFat(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}

	var (
		lipidIdx, nleaIdx     = -1, -1
		lipidEntry, nleaEntry Record
	)
	filtered := make([]Record, 0, len(records))
	for _, rec := range records {
		switch rec.nameKey() {
		case nameLipid:
			if lipidIdx < 0 {
				lipidIdx = len(filtered)
				lipidEntry = rec.withoutSourceIdentity()
			}
		case nameNLEA:
			if nleaIdx < 0 {
				nleaIdx = len(filtered)
				nleaEntry = rec.withoutSourceIdentity()
			}
		default:
			filtered = append(filtered, rec)
		}
	}

	var lipidAmount, nleaAmount *decimal.Decimal
	if lipidIdx >= 0 {
		lipidAmount = lipidEntry.Amount
	}
	if nleaIdx >= 0 {
		nleaAmount = nleaEntry.Amount
	}

	if lipidAmount == nil && nleaAmount == nil {
		return records
	}

	clone := func(source Record, name string) Record {
		cloned := source.withoutSourceIdentity()
		cloned.Nutrient.Name = name
		return cloned
	}

	if lipidAmount == nil {
		lipidClone := clone(nleaEntry, "Total lipid (fat)")
		lipidClone.Amount = nleaAmount
		at := nleaIdx
		if at < 0 {
			at = len(filtered)
		}
		filtered = insertRecord(filtered, at, lipidClone)
		return insertRecord(filtered, at+1, nleaEntry)
	}

	if nleaAmount == nil {
		nleaClone := clone(lipidEntry, "Total fat (NLEA)")
		nleaClone.Amount = lipidAmount
		at := lipidIdx
		if at < 0 {
			at = len(filtered)
		}
		filtered = insertRecord(filtered, at, lipidEntry)
		return insertRecord(filtered, at+1, nleaClone)
	}

	first, second := lipidEntry, nleaEntry
	firstIdx, secondIdx := lipidIdx, nleaIdx
	if nleaIdx <= lipidIdx {
		first, second = nleaEntry, lipidEntry
		firstIdx, secondIdx = nleaIdx, lipidIdx
	}
	filtered = insertRecord(filtered, firstIdx, first)
	return insertRecord(filtered, secondIdx, second)
}

// mergeAliases collapses records whose names map to the same canonical
// alias into one entry, keeping the first non-nil amount seen, and drops
// the Atwater energy variants.
func mergeAliases(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}

	merged := make([]Record, 0, len(records))
	index := make(map[string]int, len(records))

	for _, rec := range records {
		lower := rec.nameKey()
		if _, drop := droppedEnergyNames[lower]; drop {
			continue
		}
		canonical := strings.TrimSpace(rec.Nutrient.Name)
		if mapped, ok := mergeAliasNames[lower]; ok {
			canonical = mapped
		}
		if canonical == "" {
			continue
		}
		if at, exists := index[canonical]; exists {
			if merged[at].Amount == nil && rec.Amount != nil {
				merged[at].Amount = rec.Amount
			}
			continue
		}
		rec.Nutrient.Name = canonical
		index[canonical] = len(merged)
		merged = append(merged, rec)
	}
	return merged
}

// augmentNitrogen derives Nitrogen = Protein / 6.25 when no nitrogen
// value exists, inserting it at the protein row's position.
func augmentNitrogen(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}

	proteinIdx := -1
	var proteinAmount *decimal.Decimal
	for idx, rec := range records {
		name := rec.nameKey()
		if name == "nitrogen" && rec.Amount != nil {
			return records
		}
		if name == "protein" && proteinAmount == nil && rec.Amount != nil {
			proteinAmount = rec.Amount
			proteinIdx = idx
		}
	}
	if proteinAmount == nil {
		return records
	}

	nitrogen := Record{
		Nutrient: Info{Name: "Nitrogen", Unit: "g"},
		Amount:   amountOf(proteinAmount.Div(proteinToNitrogen)),
	}
	if proteinIdx < 0 {
		proteinIdx = 0
	}
	return insertRecord(records, proteinIdx, nitrogen)
}

var waterMacroNames = map[string]struct{}{
	"protein":                     {},
	"carbohydrate, by difference": {},
	nameLipid:                     {},
	nameNLEA:                      {},
	"ash":                         {},
	"fiber, total dietary":        {},
}

// augmentBrandedWater estimates the missing Water row of branded foods
// as 100 minus the macro sum, clamped at zero.
func augmentBrandedWater(records []Record, dataType string) []Record {
	if len(records) == 0 {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(dataType), "branded") {
		return records
	}
	for _, rec := range records {
		if rec.nameKey() == "water" && rec.Amount != nil {
			return records
		}
	}

	find := func(names ...string) decimal.Decimal {
		for _, rec := range records {
			for _, name := range names {
				if rec.nameKey() == name && rec.Amount != nil {
					return *rec.Amount
				}
			}
		}
		return decimal.Zero
	}
	macroSum := find(nameLipid, nameNLEA).
		Add(find("protein")).
		Add(find("carbohydrate, by difference")).
		Add(find("ash")).
		Add(find("fiber, total dietary"))

	water := oneHundred.Sub(macroSum)
	if water.IsNegative() {
		water = decimal.Zero
	}

	insertPos := 0
	for idx, rec := range records {
		if _, ok := waterMacroNames[rec.nameKey()]; ok {
			insertPos = idx
			break
		}
	}
	entry := Record{
		Nutrient: Info{Name: "Water", Unit: "g"},
		Amount:   amountOf(water),
	}
	return insertRecord(records, insertPos, entry)
}

var energyMacroNames = map[string]struct{}{
	"protein":                     {},
	"carbohydrate, by difference": {},
	nameLipid:                     {},
	nameNLEA:                      {},
}

// augmentEnergy always recomputes Energy from the macros with Atwater
// factors (kcal = protein*4 + carbs*4 + fat*9, kJ = kcal*4.184),
// replacing existing kcal/kJ rows in place, dropping duplicates and
// inserting missing rows at the macro block.
func augmentEnergy(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}

	result := make([]Record, 0, len(records)+2)
	kcalIdx, kjIdx := -1, -1
	for _, rec := range records {
		if rec.nameKey() != "energy" {
			result = append(result, rec)
			continue
		}
		unit := strings.ToLower(strings.TrimSpace(rec.Nutrient.Unit))
		switch {
		case unit == "kcal" && kcalIdx < 0:
			kcalIdx = len(result)
			result = append(result, rec.withoutSourceIdentity())
		case unit == "kj" && kjIdx < 0:
			kjIdx = len(result)
			result = append(result, rec.withoutSourceIdentity())
		}
		// duplicate energy rows are dropped
	}

	find := func(names ...string) decimal.Decimal {
		for _, rec := range result {
			for _, name := range names {
				if rec.nameKey() == name && rec.Amount != nil {
					return *rec.Amount
				}
			}
		}
		return decimal.Zero
	}
	kcal := find("protein").Mul(atwaterProtein).
		Add(find("carbohydrate, by difference").Mul(atwaterCarbohydrate)).
		Add(find(nameLipid, nameNLEA).Mul(atwaterFat))
	kj := kcal.Mul(units.KcalToKJ)

	insertPos := 0
	for idx, rec := range result {
		if _, ok := energyMacroNames[rec.nameKey()]; ok {
			insertPos = idx
			break
		}
	}

	if kcalIdx < 0 {
		entry := Record{Nutrient: Info{Name: "Energy", Unit: "kcal"}, Amount: amountOf(kcal)}
		result = insertRecord(result, insertPos, entry)
		if kjIdx >= insertPos {
			kjIdx++
		}
	} else {
		result[kcalIdx].Amount = amountOf(kcal)
		result[kcalIdx].Nutrient.Unit = "kcal"
	}

	if kjIdx < 0 {
		entry := Record{Nutrient: Info{Name: "Energy", Unit: "kJ"}, Amount: amountOf(kj)}
		result = insertRecord(result, insertPos+1, entry)
	} else {
		result[kjIdx].Amount = amountOf(kj)
		result[kjIdx].Nutrient.Unit = "kJ"
	}

	return result
}
