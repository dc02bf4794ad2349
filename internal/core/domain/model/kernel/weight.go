package kernel

import (
	"fmt"

	"custody/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// weightScale is the number of decimal places kept for kilograms.
const weightScale = 3

// Weight is a non-negative mass in kilograms. Sums are exact.
type Weight struct {
	kg decimal.Decimal
}

// ZeroWeight is the starting point for totals.
func ZeroWeight() Weight {
	return Weight{kg: decimal.Zero}
}

// NewWeight rounds kg to grams and rejects negative values.
func NewWeight(kg decimal.Decimal) (Weight, error) {
	if kg.IsNegative() {
		return Weight{}, errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%s is negative", kg))
	}
	return Weight{kg: kg.Round(weightScale)}, nil
}

// WeightFromString parses a decimal string such as "148.5".
//
// Example:
//
//	w, err := kernel.WeightFromString("148.5")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(w) // 148.500
func WeightFromString(s string) (Weight, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Weight{}, errs.NewValueIsInvalidErrorWithCause("weight", err)
	}
	return NewWeight(d)
}

// MustWeight is meant for tests and constants.
func MustWeight(s string) Weight {
	w, err := WeightFromString(s)
	if err != nil {
		panic(err)
	}
	return w
}

// Add returns the exact sum.
func (w Weight) Add(other Weight) Weight {
	return Weight{kg: w.kg.Add(other.kg)}
}

// Decimal exposes the value for persistence adapters.
func (w Weight) Decimal() decimal.Decimal {
	return w.kg
}

// IsZero reports a zero mass.
func (w Weight) IsZero() bool {
	return w.kg.IsZero()
}

// IsEqual compares numerically, so 1.5 equals 1.500.
func (w Weight) IsEqual(other Weight) bool {
	return w.kg.Equal(other.kg)
}

// String renders kilograms with a fixed scale, e.g. "120.500".
func (w Weight) String() string {
	return w.kg.StringFixed(weightScale)
}
