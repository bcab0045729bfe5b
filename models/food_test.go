package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewFood(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		fdcID       int64
		description string
		dataType    string
		wantErr     bool
	}{
		{"database food", 321360, "Strawberries, raw", "Foundation", false},
		{"manual food without id", 0, "house spice blend", DataTypeManual, false},
		{"manual is case-insensitive", 0, "house spice blend", " Manual ", false},
		{"missing id for database food", 0, "Strawberries, raw", "Foundation", true},
		{"empty description", 321360, "", "Foundation", true},
		{"empty data type", 321360, "Strawberries, raw", "", true},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			food, err := NewFood(tt.fdcID, tt.description, tt.dataType, "", nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFood returned error: %v", err)
			}
			if food.Description != tt.description {
				t.Errorf("description = %q, want %q", food.Description, tt.description)
			}
		})
	}
}

func TestFoodNutrientLookup(t *testing.T) {
	t.Parallel()

	food := testFood(t, "Strawberries, raw",
		testNutrient(t, "Protein", "g", "0.64"),
		testNutrient(t, "Vitamin C, total ascorbic acid", "mg", "58.8"),
	)

	got := food.Nutrient("protein")
	if got == nil {
		t.Fatal("lookup should be case-insensitive")
	}
	if !got.Amount.Equal(decimal.RequireFromString("0.64")) {
		t.Errorf("amount = %s, want 0.64", got.Amount)
	}
	if food.Nutrient("Fiber, total dietary") != nil {
		t.Error("missing nutrient should return nil")
	}
	if !food.HasNutrient("VITAMIN C, TOTAL ASCORBIC ACID") {
		t.Error("HasNutrient should match ignoring case")
	}
}

func TestNewNutrient(t *testing.T) {
	t.Parallel()

	if _, err := NewNutrient("", "g", decimal.NewFromInt(1)); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := NewNutrient("Protein", "", decimal.NewFromInt(1)); err == nil {
		t.Error("expected error for empty unit")
	}
	if _, err := NewNutrient("Protein", "g", decimal.NewFromInt(-1)); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestNutrientScale(t *testing.T) {
	t.Parallel()

	n := testNutrient(t, "Protein", "g", "0.64")
	scaled := n.Scale(decimal.NewFromInt(2))
	if !scaled.Amount.Equal(decimal.RequireFromString("1.28")) {
		t.Errorf("scaled amount = %s, want 1.28", scaled.Amount)
	}
	if !n.Amount.Equal(decimal.RequireFromString("0.64")) {
		t.Errorf("original amount = %s, want unchanged 0.64", n.Amount)
	}
}
