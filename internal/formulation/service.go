// Package formulation implements the lock-aware redistribution of
// ingredient quantities. All operations either mutate the formulation to
// a consistent state or fail without partial mutation.
package formulation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"formulator/models"
)

// Operation errors. All are recoverable conditions the caller can
// surface for correction.
var (
	ErrTargetNotPositive     = errors.New("target weight must be positive")
	ErrLockedExceedsTarget   = errors.New("locked weight exceeds target weight")
	ErrAllLocked             = errors.New("all ingredients locked, cannot reach target weight")
	ErrZeroUnlockedWeight    = errors.New("unlocked ingredients have zero weight")
	ErrNegativeAmount        = errors.New("amount cannot be negative")
	ErrInvalidIndex          = errors.New("invalid ingredient index")
	ErrPercentOutOfRange     = errors.New("percentage must be between 0 and 100")
	ErrLockedPercentOverflow = errors.New("locked percentages exceed 100")
	ErrPercentBudgetExceeded = errors.New("percentage budget exceeded")
	ErrNoFreeIngredients     = errors.New("no unlocked ingredients available to absorb the change")
)

var oneHundred = decimal.NewFromInt(100)

// AdjustToTargetWeight scales unlocked ingredients proportionally so the
// formulation's total weight equals target. Locked ingredients keep
// their absolute amounts. The last unlocked ingredient absorbs the
// division remainder so the postcondition holds exactly.
func AdjustToTargetWeight(f *models.Formulation, target decimal.Decimal) error {
	if target.Sign() <= 0 {
		return fmt.Errorf("%w: %s", ErrTargetNotPositive, target)
	}

	locked := f.LockedWeight()
	if locked.GreaterThan(target) {
		return fmt.Errorf("%w: locked %sg, target %sg", ErrLockedExceedsTarget, locked, target)
	}

	var unlocked []*models.Ingredient
	for _, ing := range f.Ingredients {
		if !ing.Locked {
			unlocked = append(unlocked, ing)
		}
	}
	if len(unlocked) == 0 {
		if !f.TotalWeight().Equal(target) {
			return ErrAllLocked
		}
		return nil
	}

	unlockedWeight := decimal.Zero
	for _, ing := range unlocked {
		unlockedWeight = unlockedWeight.Add(ing.AmountG)
	}
	if unlockedWeight.IsZero() {
		return ErrZeroUnlockedWeight
	}

	available := target.Sub(locked)
	scale := available.Div(unlockedWeight)

	assigned := decimal.Zero
	for i, ing := range unlocked {
		if i == len(unlocked)-1 {
			ing.AmountG = available.Sub(assigned)
			break
		}
		ing.AmountG = ing.AmountG.Mul(scale)
		assigned = assigned.Add(ing.AmountG)
	}
	return nil
}

// SetIngredientAmount sets one ingredient's amount. With maintainTotal
// the other unlocked ingredients absorb the delta so the total weight is
// preserved; the edited ingredient is locked for the duration of the
// redistribution and its original lock state is restored on every exit
// path.
func SetIngredientAmount(f *models.Formulation, index int, amountG decimal.Decimal, maintainTotal bool) error {
	if amountG.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeAmount, amountG)
	}
	ing, err := f.Ingredient(index)
	if err != nil {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}

	if !maintainTotal {
		ing.AmountG = amountG
		return nil
	}

	oldTotal := f.TotalWeight()
	ing.AmountG = amountG

	wasLocked := ing.Locked
	ing.Locked = true
	defer func() { ing.Locked = wasLocked }()

	return AdjustToTargetWeight(f, oldTotal)
}

// ApplyPercentEdit sets one ingredient's share of the formulation to
// targetPercent of the current total weight (100 g when empty of
// weight), rescaling unlocked "free" ingredients to fill the remaining
// budget while locked ingredients keep their amounts. The operation is
// atomic: any violation aborts before mutation.
func ApplyPercentEdit(f *models.Formulation, index int, targetPercent decimal.Decimal) error {
	if targetPercent.IsNegative() || targetPercent.GreaterThan(oneHundred) {
		return fmt.Errorf("%w: %s", ErrPercentOutOfRange, targetPercent)
	}
	if index < 0 || index >= len(f.Ingredients) {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}

	baseTotal := f.TotalWeight()
	if baseTotal.IsZero() {
		baseTotal = oneHundred
	}

	percents := make([]decimal.Decimal, len(f.Ingredients))
	for i, ing := range f.Ingredients {
		percents[i] = ing.AmountG.Div(baseTotal).Mul(oneHundred)
	}

	lockedSum := decimal.Zero
	var free []int
	for i, ing := range f.Ingredients {
		if i == index {
			continue
		}
		if ing.Locked {
			lockedSum = lockedSum.Add(percents[i])
		} else {
			free = append(free, i)
		}
	}
	if lockedSum.GreaterThan(oneHundred) {
		return fmt.Errorf("%w: locked %s%%", ErrLockedPercentOverflow, lockedSum)
	}

	remaining := oneHundred.Sub(lockedSum).Sub(targetPercent)
	if remaining.IsNegative() {
		return fmt.Errorf("%w: remaining budget %s%%", ErrPercentBudgetExceeded, remaining)
	}
	if !remaining.IsZero() && len(free) == 0 {
		return ErrNoFreeIngredients
	}

	freeSum := decimal.Zero
	for _, i := range free {
		freeSum = freeSum.Add(percents[i])
	}

	next := make([]decimal.Decimal, len(percents))
	copy(next, percents)
	next[index] = targetPercent
	if len(free) > 0 {
		if freeSum.IsZero() {
			for _, i := range free {
				next[i] = decimal.Zero
			}
			next[free[0]] = remaining
		} else {
			for _, i := range free {
				next[i] = percents[i].Div(freeSum).Mul(remaining)
			}
		}
	}
	for _, p := range next {
		if p.IsNegative() {
			return fmt.Errorf("%w: negative resulting percentage %s", ErrPercentBudgetExceeded, p)
		}
	}

	// Locked ingredients keep their absolute amounts.
	f.Ingredients[index].AmountG = targetPercent.Mul(baseTotal).Div(oneHundred)
	for _, i := range free {
		f.Ingredients[i].AmountG = next[i].Mul(baseTotal).Div(oneHundred)
	}
	return nil
}

// NormalizeTo100g scales every ingredient, locks ignored, so the total
// weight becomes exactly 100 g. A zero-weight formulation is left as is.
func NormalizeTo100g(f *models.Formulation) {
	ScaleToTargetWeight(f, oneHundred)
}

// ScaleToTargetWeight scales every ingredient proportionally, locks
// ignored, so the total weight becomes target. Non-positive targets and
// zero-weight formulations are left as is.
func ScaleToTargetWeight(f *models.Formulation, target decimal.Decimal) {
	current := f.TotalWeight()
	if current.IsZero() || target.Sign() <= 0 || current.Equal(target) {
		return
	}
	scale := target.Div(current)
	for _, ing := range f.Ingredients {
		ing.AmountG = ing.AmountG.Mul(scale)
	}
}

// DistributePercentages re-expresses each ingredient's current share of
// the total over targetTotal grams, used when switching from percent
// mode back to grams mode.
func DistributePercentages(f *models.Formulation, targetTotal decimal.Decimal) {
	if f.IsEmpty() {
		return
	}
	total := f.TotalWeight()
	for _, ing := range f.Ingredients {
		percent := ing.Percentage(total)
		ing.AmountG = percent.Div(oneHundred).Mul(targetTotal)
	}
}

// Lock locks the ingredient at index at its current amount.
func Lock(f *models.Formulation, index int) error {
	ing, err := f.Ingredient(index)
	if err != nil {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	ing.Locked = true
	return nil
}

// Unlock unlocks the ingredient at index.
func Unlock(f *models.Formulation, index int) error {
	ing, err := f.Ingredient(index)
	if err != nil {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	ing.Locked = false
	return nil
}
