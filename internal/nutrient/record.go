// Package nutrient implements the nutrient ordering, normalization and
// aggregation pipeline of the formulation engine.
package nutrient

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Info mirrors the source database's nutrient descriptor. ID and Number
// identify the nutrient in the source when present; Rank is the source's
// display rank hint.
type Info struct {
	Name   string `json:"name"`
	Unit   string `json:"unitName,omitempty"`
	ID     *int64 `json:"id,omitempty"`
	Number string `json:"number,omitempty"`
	Rank   *int   `json:"rank,omitempty"`
}

// Record pairs a nutrient descriptor with a measured amount. A nil
// amount means the source reported the nutrient without a value; such
// rows carry grouping/ordering hints only.
type Record struct {
	Nutrient Info             `json:"nutrient"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
}

// nameKey returns the trimmed, lower-cased nutrient name.
func (r Record) nameKey() string {
	return strings.ToLower(strings.TrimSpace(r.Nutrient.Name))
}

// withoutSourceIdentity clears the source id and number, used when a row
// is cloned or recomputed and no longer matches the source record.
func (r Record) withoutSourceIdentity() Record {
	r.Nutrient.ID = nil
	r.Nutrient.Number = ""
	return r
}

func amountOrZero(a *decimal.Decimal) decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	return *a
}

func amountOf(value decimal.Decimal) *decimal.Decimal {
	return &value
}
