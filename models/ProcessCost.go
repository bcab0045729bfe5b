package models

import "github.com/shopspring/decimal"

// ScaleType is the billing model of a production process cost.
type ScaleType string

const (
	// ScaleFixed bills a fixed time at an hourly rate.
	ScaleFixed ScaleType = "FIXED"
	// ScaleVariablePerKg bills time proportional to batch mass.
	ScaleVariablePerKg ScaleType = "VARIABLE_PER_KG"
	// ScaleMixed bills a setup time plus a per-kilogram time.
	ScaleMixed ScaleType = "MIXED"
)

// Time units accepted by the cost engine.
const (
	TimeUnitMinutes = "min"
	TimeUnitHours   = "h"
)

// ProcessCost describes one production step. All numeric fields are
// optional; the cost engine treats missing data as an incomplete entry
// rather than an error.
type ProcessCost struct {
	Name           string           `json:"name"`
	ScaleType      ScaleType        `json:"scale_type"`
	TimeValue      *decimal.Decimal `json:"time_value,omitempty"`
	TimeUnit       string           `json:"time_unit,omitempty"`
	CostPerHour    *decimal.Decimal `json:"cost_per_hour,omitempty"`
	TotalCost      *decimal.Decimal `json:"total_cost,omitempty"`
	SetupTimeValue *decimal.Decimal `json:"setup_time_value,omitempty"`
	SetupTimeUnit  string           `json:"setup_time_unit,omitempty"`
	TimePerKgValue *decimal.Decimal `json:"time_per_kg_value,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}
