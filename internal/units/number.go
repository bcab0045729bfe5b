package units

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a user-supplied or externally-sourced numeric
// string, tolerating both decimal conventions. A string containing a
// comma is read with periods as thousands separators and the comma as
// the decimal point; otherwise commas are thousands separators. The
// second return is false when the text carries no usable value.
func ParseDecimal(text string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}
