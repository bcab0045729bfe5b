package formulation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"formulator/models"
)

func newFormulation(t *testing.T, amounts ...string) *models.Formulation {
	t.Helper()
	f, err := models.NewFormulation("test")
	if err != nil {
		t.Fatalf("NewFormulation: %v", err)
	}
	for i, a := range amounts {
		food, err := models.NewFood(int64(i+1), "ingredient", models.DataTypeManual, "", nil)
		if err != nil {
			t.Fatalf("NewFood: %v", err)
		}
		ing, err := models.NewIngredient(food, decimal.RequireFromString(a))
		if err != nil {
			t.Fatalf("NewIngredient: %v", err)
		}
		f.AddIngredient(ing)
	}
	return f
}

func amountsOf(f *models.Formulation) []string {
	out := make([]string, len(f.Ingredients))
	for i, ing := range f.Ingredients {
		out[i] = ing.AmountG.String()
	}
	return out
}

func TestAdjustToTargetWeightLockedFirst(t *testing.T) {
	t.Parallel()

	f := newFormulation(t, "50", "30", "20")
	f.Ingredients[0].Locked = true

	if err := AdjustToTargetWeight(f, decimal.NewFromInt(150)); err != nil {
		t.Fatalf("AdjustToTargetWeight: %v", err)
	}

	want := []string{"50", "60", "40"}
	for i, w := range want {
		if !f.Ingredients[i].AmountG.Equal(decimal.RequireFromString(w)) {
			t.Errorf("ingredient %d = %s, want %s", i, f.Ingredients[i].AmountG, w)
		}
	}
	if !f.TotalWeight().Equal(decimal.NewFromInt(150)) {
		t.Errorf("total = %s, want 150", f.TotalWeight())
	}
}

func TestAdjustToTargetWeightExactTotal(t *testing.T) {
	t.Parallel()

	// 3 equal unlocked parts of a target not divisible into finite
	// decimals still sum exactly to the target.
	f := newFormulation(t, "10", "10", "10")
	target := decimal.NewFromInt(100)
	if err := AdjustToTargetWeight(f, target); err != nil {
		t.Fatalf("AdjustToTargetWeight: %v", err)
	}
	if !f.TotalWeight().Equal(target) {
		t.Errorf("total = %s, want %s (amounts %v)", f.TotalWeight(), target, amountsOf(f))
	}
}

func TestAdjustToTargetWeightErrors(t *testing.T) {
	t.Parallel()

	t.Run("zero target", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50", "50")
		if err := AdjustToTargetWeight(f, decimal.Zero); !errors.Is(err, ErrTargetNotPositive) {
			t.Errorf("err = %v, want ErrTargetNotPositive", err)
		}
	})

	t.Run("negative target", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50")
		if err := AdjustToTargetWeight(f, decimal.NewFromInt(-10)); !errors.Is(err, ErrTargetNotPositive) {
			t.Errorf("err = %v, want ErrTargetNotPositive", err)
		}
	})

	t.Run("locked exceeds target", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "80", "20")
		f.Ingredients[0].Locked = true
		if err := AdjustToTargetWeight(f, decimal.NewFromInt(50)); !errors.Is(err, ErrLockedExceedsTarget) {
			t.Errorf("err = %v, want ErrLockedExceedsTarget", err)
		}
	})

	t.Run("all locked", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "40", "60")
		f.Ingredients[0].Locked = true
		f.Ingredients[1].Locked = true
		if err := AdjustToTargetWeight(f, decimal.NewFromInt(150)); !errors.Is(err, ErrAllLocked) {
			t.Errorf("err = %v, want ErrAllLocked", err)
		}
	})

	t.Run("all locked at target is a no-op", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "40", "60")
		f.Ingredients[0].Locked = true
		f.Ingredients[1].Locked = true
		if err := AdjustToTargetWeight(f, decimal.NewFromInt(100)); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	})

	t.Run("zero unlocked weight", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50", "0")
		f.Ingredients[0].Locked = true
		if err := AdjustToTargetWeight(f, decimal.NewFromInt(150)); !errors.Is(err, ErrZeroUnlockedWeight) {
			t.Errorf("err = %v, want ErrZeroUnlockedWeight", err)
		}
	})
}

func TestAdjustToTargetWeightPreservesLockedAmounts(t *testing.T) {
	t.Parallel()

	f := newFormulation(t, "25", "25", "50")
	f.Ingredients[2].Locked = true
	if err := AdjustToTargetWeight(f, decimal.NewFromInt(200)); err != nil {
		t.Fatalf("AdjustToTargetWeight: %v", err)
	}
	if !f.Ingredients[2].AmountG.Equal(decimal.NewFromInt(50)) {
		t.Errorf("locked amount = %s, want 50", f.Ingredients[2].AmountG)
	}
	if !f.Ingredients[0].AmountG.Equal(decimal.NewFromInt(75)) || !f.Ingredients[1].AmountG.Equal(decimal.NewFromInt(75)) {
		t.Errorf("unlocked amounts = %v, want 75/75", amountsOf(f))
	}
}

func TestSetIngredientAmount(t *testing.T) {
	t.Parallel()

	t.Run("direct set", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50", "50")
		if err := SetIngredientAmount(f, 0, decimal.NewFromInt(30), false); err != nil {
			t.Fatalf("SetIngredientAmount: %v", err)
		}
		if !f.Ingredients[0].AmountG.Equal(decimal.NewFromInt(30)) {
			t.Errorf("amount = %s, want 30", f.Ingredients[0].AmountG)
		}
		if !f.TotalWeight().Equal(decimal.NewFromInt(80)) {
			t.Errorf("total = %s, want 80", f.TotalWeight())
		}
	})

	t.Run("maintain total", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50", "30", "20")
		if err := SetIngredientAmount(f, 0, decimal.NewFromInt(60), true); err != nil {
			t.Fatalf("SetIngredientAmount: %v", err)
		}
		if !f.TotalWeight().Equal(decimal.NewFromInt(100)) {
			t.Errorf("total = %s, want 100 (amounts %v)", f.TotalWeight(), amountsOf(f))
		}
		if !f.Ingredients[0].AmountG.Equal(decimal.NewFromInt(60)) {
			t.Errorf("edited amount = %s, want 60", f.Ingredients[0].AmountG)
		}
		// 30/20 share the remaining 40 proportionally.
		if !f.Ingredients[1].AmountG.Equal(decimal.NewFromInt(24)) {
			t.Errorf("amount 1 = %s, want 24", f.Ingredients[1].AmountG)
		}
		if !f.Ingredients[2].AmountG.Equal(decimal.NewFromInt(16)) {
			t.Errorf("amount 2 = %s, want 16", f.Ingredients[2].AmountG)
		}
		if f.Ingredients[0].Locked {
			t.Error("edited ingredient should not stay locked")
		}
	})

	t.Run("lock restored on redistribution failure", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50", "50")
		f.Ingredients[1].Locked = true
		err := SetIngredientAmount(f, 0, decimal.NewFromInt(80), true)
		if !errors.Is(err, ErrLockedExceedsTarget) {
			t.Fatalf("err = %v, want ErrLockedExceedsTarget", err)
		}
		if f.Ingredients[0].Locked {
			t.Error("edited ingredient should be unlocked after failure")
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50")
		if err := SetIngredientAmount(f, 0, decimal.NewFromInt(-1), false); !errors.Is(err, ErrNegativeAmount) {
			t.Errorf("err = %v, want ErrNegativeAmount", err)
		}
	})

	t.Run("invalid index", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50")
		if err := SetIngredientAmount(f, 3, decimal.NewFromInt(10), false); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("err = %v, want ErrInvalidIndex", err)
		}
	})
}

func TestApplyPercentEdit(t *testing.T) {
	t.Parallel()

	t.Run("rescales free ingredients", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50", "30", "20")
		if err := ApplyPercentEdit(f, 0, decimal.NewFromInt(60)); err != nil {
			t.Fatalf("ApplyPercentEdit: %v", err)
		}
		want := []string{"60", "24", "16"}
		for i, w := range want {
			if !f.Ingredients[i].AmountG.Equal(decimal.RequireFromString(w)) {
				t.Errorf("ingredient %d = %s, want %s", i, f.Ingredients[i].AmountG, w)
			}
		}
	})

	t.Run("locked amounts untouched", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "40", "40", "20")
		f.Ingredients[2].Locked = true
		if err := ApplyPercentEdit(f, 0, decimal.NewFromInt(50)); err != nil {
			t.Fatalf("ApplyPercentEdit: %v", err)
		}
		if !f.Ingredients[2].AmountG.Equal(decimal.NewFromInt(20)) {
			t.Errorf("locked amount = %s, want 20", f.Ingredients[2].AmountG)
		}
		if !f.Ingredients[0].AmountG.Equal(decimal.NewFromInt(50)) {
			t.Errorf("edited amount = %s, want 50", f.Ingredients[0].AmountG)
		}
		if !f.Ingredients[1].AmountG.Equal(decimal.NewFromInt(30)) {
			t.Errorf("free amount = %s, want 30", f.Ingredients[1].AmountG)
		}
	})

	t.Run("zero-weight free rows get the full remainder", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "100", "0", "0")
		if err := ApplyPercentEdit(f, 0, decimal.NewFromInt(70)); err != nil {
			t.Fatalf("ApplyPercentEdit: %v", err)
		}
		if !f.Ingredients[1].AmountG.Equal(decimal.NewFromInt(30)) {
			t.Errorf("first free amount = %s, want 30", f.Ingredients[1].AmountG)
		}
		if !f.Ingredients[2].AmountG.IsZero() {
			t.Errorf("second free amount = %s, want 0", f.Ingredients[2].AmountG)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50", "50")
		if err := ApplyPercentEdit(f, 0, decimal.NewFromInt(101)); !errors.Is(err, ErrPercentOutOfRange) {
			t.Errorf("err = %v, want ErrPercentOutOfRange", err)
		}
		if err := ApplyPercentEdit(f, 0, decimal.NewFromInt(-1)); !errors.Is(err, ErrPercentOutOfRange) {
			t.Errorf("err = %v, want ErrPercentOutOfRange", err)
		}
	})

	t.Run("locked budget overflow", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "10", "60", "30")
		f.Ingredients[1].Locked = true
		f.Ingredients[2].Locked = true
		if err := ApplyPercentEdit(f, 0, decimal.NewFromInt(20)); !errors.Is(err, ErrPercentBudgetExceeded) {
			t.Errorf("err = %v, want ErrPercentBudgetExceeded", err)
		}
		if !f.Ingredients[0].AmountG.Equal(decimal.NewFromInt(10)) {
			t.Errorf("failed edit mutated amounts: %v", amountsOf(f))
		}
	})

	t.Run("no free ingredients", func(t *testing.T) {
		t.Parallel()
		f := newFormulation(t, "50", "50")
		f.Ingredients[1].Locked = true
		if err := ApplyPercentEdit(f, 0, decimal.NewFromInt(40)); !errors.Is(err, ErrNoFreeIngredients) {
			t.Errorf("err = %v, want ErrNoFreeIngredients", err)
		}
	})
}

func TestScaleToTargetWeight(t *testing.T) {
	t.Parallel()

	f := newFormulation(t, "50", "30", "20")
	f.Ingredients[0].Locked = true
	ScaleToTargetWeight(f, decimal.NewFromInt(200))
	want := []string{"100", "60", "40"}
	for i, w := range want {
		if !f.Ingredients[i].AmountG.Equal(decimal.RequireFromString(w)) {
			t.Errorf("ingredient %d = %s, want %s", i, f.Ingredients[i].AmountG, w)
		}
	}

	empty := newFormulation(t)
	ScaleToTargetWeight(empty, decimal.NewFromInt(100))
	if !empty.TotalWeight().IsZero() {
		t.Errorf("empty formulation total = %s, want 0", empty.TotalWeight())
	}
}

func TestScaleToTargetWeightRoundTrip(t *testing.T) {
	t.Parallel()

	tolerance := decimal.RequireFromString("0.0000000001")

	f := newFormulation(t, "10", "10", "10")
	original := []string{"10", "10", "10"}
	ScaleToTargetWeight(f, decimal.NewFromInt(100))
	ScaleToTargetWeight(f, decimal.NewFromInt(30))
	for i, w := range original {
		diff := f.Ingredients[i].AmountG.Sub(decimal.RequireFromString(w)).Abs()
		if diff.GreaterThan(tolerance) {
			t.Errorf("ingredient %d = %s, want %s within %s", i, f.Ingredients[i].AmountG, w, tolerance)
		}
	}
}

func TestAdjustToTargetWeightRoundTrip(t *testing.T) {
	t.Parallel()

	tolerance := decimal.RequireFromString("0.0000000001")

	f := newFormulation(t, "50", "30", "20")
	f.Ingredients[0].Locked = true
	original := []string{"50", "30", "20"}
	if err := AdjustToTargetWeight(f, decimal.NewFromInt(150)); err != nil {
		t.Fatalf("AdjustToTargetWeight: %v", err)
	}
	if err := AdjustToTargetWeight(f, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("AdjustToTargetWeight: %v", err)
	}
	for i, w := range original {
		diff := f.Ingredients[i].AmountG.Sub(decimal.RequireFromString(w)).Abs()
		if diff.GreaterThan(tolerance) {
			t.Errorf("ingredient %d = %s, want %s within %s", i, f.Ingredients[i].AmountG, w, tolerance)
		}
	}
	if !f.TotalWeight().Equal(decimal.NewFromInt(100)) {
		t.Errorf("total = %s, want exactly 100", f.TotalWeight())
	}
}

func TestNormalizeTo100g(t *testing.T) {
	t.Parallel()

	f := newFormulation(t, "30", "30")
	NormalizeTo100g(f)
	if !f.TotalWeight().Equal(decimal.NewFromInt(100)) {
		t.Errorf("total = %s, want 100", f.TotalWeight())
	}
	if !f.Ingredients[0].AmountG.Equal(decimal.NewFromInt(50)) {
		t.Errorf("amount = %s, want 50", f.Ingredients[0].AmountG)
	}
}

func TestDistributePercentages(t *testing.T) {
	t.Parallel()

	f := newFormulation(t, "1", "3")
	DistributePercentages(f, decimal.NewFromInt(200))
	if !f.Ingredients[0].AmountG.Equal(decimal.NewFromInt(50)) {
		t.Errorf("amount 0 = %s, want 50", f.Ingredients[0].AmountG)
	}
	if !f.Ingredients[1].AmountG.Equal(decimal.NewFromInt(150)) {
		t.Errorf("amount 1 = %s, want 150", f.Ingredients[1].AmountG)
	}
}

func TestLockUnlock(t *testing.T) {
	t.Parallel()

	f := newFormulation(t, "10")
	if err := Lock(f, 0); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if !f.Ingredients[0].Locked {
		t.Error("ingredient not locked")
	}
	if err := Unlock(f, 0); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if f.Ingredients[0].Locked {
		t.Error("ingredient not unlocked")
	}
	if err := Lock(f, 5); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("err = %v, want ErrInvalidIndex", err)
	}
}
