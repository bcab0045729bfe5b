package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"formulator/models"
)

// FormulationRecord is the persisted form of a formulation. Child rows
// carry a Position column so slice order survives the round trip.
type FormulationRecord struct {
	ID           uint            `gorm:"primaryKey"`
	Name         string          `gorm:"uniqueIndex;size:255;not null"`
	QuantityMode string          `gorm:"size:8;not null"`
	YieldPercent decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Ingredients    []IngredientRecord    `gorm:"foreignKey:FormulationID;constraint:OnDelete:CASCADE"`
	ProcessCosts   []ProcessCostRecord   `gorm:"foreignKey:FormulationID;constraint:OnDelete:CASCADE"`
	PackagingItems []PackagingItemRecord `gorm:"foreignKey:FormulationID;constraint:OnDelete:CASCADE"`
	CurrencyRates  []CurrencyRateRecord  `gorm:"foreignKey:FormulationID;constraint:OnDelete:CASCADE"`
}

// IngredientRecord flattens an ingredient and its food. The per-100g
// nutrient list is stored as a JSON text column rather than a child
// table; it is read back wholesale and never queried.
type IngredientRecord struct {
	ID            uint `gorm:"primaryKey"`
	FormulationID uint `gorm:"index;not null"`
	Position      int  `gorm:"not null"`

	FDCID         int64  `gorm:"column:fdc_id"`
	Description   string `gorm:"size:512;not null"`
	DataType      string `gorm:"size:64;not null"`
	BrandOwner    string `gorm:"size:255"`
	NutrientsJSON string `gorm:"type:text"`

	AmountG decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Locked  bool

	CostPackAmount     *decimal.Decimal `gorm:"type:decimal(20,6)"`
	CostPackUnit       string           `gorm:"size:16"`
	CostValue          *decimal.Decimal `gorm:"type:decimal(20,6)"`
	CostCurrencySymbol string           `gorm:"size:16"`
}

type ProcessCostRecord struct {
	ID            uint `gorm:"primaryKey"`
	FormulationID uint `gorm:"index;not null"`
	Position      int  `gorm:"not null"`

	Name           string           `gorm:"size:255"`
	ScaleType      string           `gorm:"size:32;not null"`
	TimeValue      *decimal.Decimal `gorm:"type:decimal(20,6)"`
	TimeUnit       string           `gorm:"size:8"`
	CostPerHour    *decimal.Decimal `gorm:"type:decimal(20,6)"`
	TotalCost      *decimal.Decimal `gorm:"type:decimal(20,6)"`
	SetupTimeValue *decimal.Decimal `gorm:"type:decimal(20,6)"`
	SetupTimeUnit  string           `gorm:"size:8"`
	TimePerKgValue *decimal.Decimal `gorm:"type:decimal(20,6)"`
	Notes          string           `gorm:"type:text"`
}

type PackagingItemRecord struct {
	ID            uint `gorm:"primaryKey"`
	FormulationID uint `gorm:"index;not null"`
	Position      int  `gorm:"not null"`

	Name            string          `gorm:"size:255"`
	QuantityPerPack decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Currency        string          `gorm:"size:16"`
	Notes           string          `gorm:"type:text"`
}

type CurrencyRateRecord struct {
	ID            uint `gorm:"primaryKey"`
	FormulationID uint `gorm:"index;not null"`
	Position      int  `gorm:"not null"`

	Name       string          `gorm:"size:64"`
	Symbol     string          `gorm:"size:16;not null"`
	RateToBase decimal.Decimal `gorm:"type:decimal(20,6);not null"`
}

func newFormulationRecord(f *models.Formulation) (*FormulationRecord, error) {
	rec := &FormulationRecord{
		Name:         f.Name,
		QuantityMode: f.QuantityMode,
		YieldPercent: f.YieldPercent,
	}

	for i, ing := range f.Ingredients {
		nutrients, err := json.Marshal(ing.Food.Nutrients)
		if err != nil {
			return nil, fmt.Errorf("marshal nutrients for %q: %w", ing.Description(), err)
		}
		rec.Ingredients = append(rec.Ingredients, IngredientRecord{
			Position:           i,
			FDCID:              ing.FDCID(),
			Description:        ing.Description(),
			DataType:           ing.Food.DataType,
			BrandOwner:         ing.Food.BrandOwner,
			NutrientsJSON:      string(nutrients),
			AmountG:            ing.AmountG,
			Locked:             ing.Locked,
			CostPackAmount:     ing.CostPackAmount,
			CostPackUnit:       ing.CostPackUnit,
			CostValue:          ing.CostValue,
			CostCurrencySymbol: ing.CostCurrencySymbol,
		})
	}

	for i, p := range f.ProcessCosts {
		rec.ProcessCosts = append(rec.ProcessCosts, ProcessCostRecord{
			Position:       i,
			Name:           p.Name,
			ScaleType:      string(p.ScaleType),
			TimeValue:      p.TimeValue,
			TimeUnit:       p.TimeUnit,
			CostPerHour:    p.CostPerHour,
			TotalCost:      p.TotalCost,
			SetupTimeValue: p.SetupTimeValue,
			SetupTimeUnit:  p.SetupTimeUnit,
			TimePerKgValue: p.TimePerKgValue,
			Notes:          p.Notes,
		})
	}

	for i, item := range f.PackagingItems {
		rec.PackagingItems = append(rec.PackagingItems, PackagingItemRecord{
			Position:        i,
			Name:            item.Name,
			QuantityPerPack: item.QuantityPerPack,
			UnitCost:        item.UnitCost,
			Currency:        item.Currency,
			Notes:           item.Notes,
		})
	}

	for i, rate := range f.CurrencyRates {
		rec.CurrencyRates = append(rec.CurrencyRates, CurrencyRateRecord{
			Position:   i,
			Name:       rate.Name,
			Symbol:     rate.Symbol,
			RateToBase: rate.RateToBase,
		})
	}

	return rec, nil
}

func (r *FormulationRecord) toModel() (*models.Formulation, error) {
	f := &models.Formulation{
		Name:         r.Name,
		QuantityMode: r.QuantityMode,
		YieldPercent: r.YieldPercent,
	}

	for _, ing := range r.Ingredients {
		var nutrients []models.Nutrient
		if ing.NutrientsJSON != "" {
			if err := json.Unmarshal([]byte(ing.NutrientsJSON), &nutrients); err != nil {
				return nil, fmt.Errorf("unmarshal nutrients for %q: %w", ing.Description, err)
			}
		}
		f.Ingredients = append(f.Ingredients, &models.Ingredient{
			Food: &models.Food{
				FDCID:       ing.FDCID,
				Description: ing.Description,
				DataType:    ing.DataType,
				BrandOwner:  ing.BrandOwner,
				Nutrients:   nutrients,
			},
			AmountG:            ing.AmountG,
			Locked:             ing.Locked,
			CostPackAmount:     ing.CostPackAmount,
			CostPackUnit:       ing.CostPackUnit,
			CostValue:          ing.CostValue,
			CostCurrencySymbol: ing.CostCurrencySymbol,
		})
	}

	for _, p := range r.ProcessCosts {
		f.ProcessCosts = append(f.ProcessCosts, models.ProcessCost{
			Name:           p.Name,
			ScaleType:      models.ScaleType(p.ScaleType),
			TimeValue:      p.TimeValue,
			TimeUnit:       p.TimeUnit,
			CostPerHour:    p.CostPerHour,
			TotalCost:      p.TotalCost,
			SetupTimeValue: p.SetupTimeValue,
			SetupTimeUnit:  p.SetupTimeUnit,
			TimePerKgValue: p.TimePerKgValue,
			Notes:          p.Notes,
		})
	}

	for _, item := range r.PackagingItems {
		f.PackagingItems = append(f.PackagingItems, models.PackagingItem{
			Name:            item.Name,
			QuantityPerPack: item.QuantityPerPack,
			UnitCost:        item.UnitCost,
			Currency:        item.Currency,
			Notes:           item.Notes,
		})
	}

	for _, rate := range r.CurrencyRates {
		f.CurrencyRates = append(f.CurrencyRates, models.CurrencyRate{
			Name:       rate.Name,
			Symbol:     rate.Symbol,
			RateToBase: rate.RateToBase,
		})
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("stored formulation %q is invalid: %w", r.Name, err)
	}
	return f, nil
}
