package models

import (
	"fmt"
	"strings"
)

// DataTypeManual marks user-entered foods that have no database identifier.
const DataTypeManual = "manual"

// Food is an immutable food record. Nutrient amounts are per 100 g of
// the food as supplied by the source.
type Food struct {
	FDCID       int64      `json:"fdc_id"`
	Description string     `json:"description"`
	DataType    string     `json:"data_type"`
	BrandOwner  string     `json:"brand_owner,omitempty"`
	Nutrients   []Nutrient `json:"nutrients"`
}

// NewFood validates and builds a Food. A non-positive FDC ID is only
// accepted for manual foods.
func NewFood(fdcID int64, description, dataType, brandOwner string, nutrients []Nutrient) (*Food, error) {
	if description == "" {
		return nil, fmt.Errorf("food description cannot be empty")
	}
	if dataType == "" {
		return nil, fmt.Errorf("food data type cannot be empty")
	}
	if fdcID <= 0 && !strings.EqualFold(strings.TrimSpace(dataType), DataTypeManual) {
		return nil, fmt.Errorf("invalid FDC ID: %d", fdcID)
	}

	return &Food{
		FDCID:       fdcID,
		Description: description,
		DataType:    dataType,
		BrandOwner:  brandOwner,
		Nutrients:   nutrients,
	}, nil
}

// Nutrient returns the named nutrient (case-insensitive) or nil.
func (f *Food) Nutrient(name string) *Nutrient {
	for i := range f.Nutrients {
		if strings.EqualFold(f.Nutrients[i].Name, name) {
			return &f.Nutrients[i]
		}
	}
	return nil
}

// HasNutrient reports whether the food carries the named nutrient.
func (f *Food) HasNutrient(name string) bool {
	return f.Nutrient(name) != nil
}
