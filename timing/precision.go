package timing

import (
	"errors"
	"fmt"
	"math"
)

// MaxRoundingDigits is the largest number of decimal digits a time step may
// need to be represented exactly.
const MaxRoundingDigits = 15

// ErrUnrepresentableStep is returned when a time step cannot be written with
// at most MaxRoundingDigits decimal digits.
var ErrUnrepresentableStep = errors.New("timing: time step has no exact decimal rounding")

// OptimalRounding returns the smallest number of decimal digits that
// represents step exactly, e.g. 1 for 0.1 and 3 for 0.025.
func OptimalRounding(step VTimeInMs) (int, error) {
	if math.IsNaN(float64(step)) || math.IsInf(float64(step), 0) {
		return 0, fmt.Errorf("%w: %v", ErrUnrepresentableStep, float64(step))
	}

	for digits := 0; digits <= MaxRoundingDigits; digits++ {
		if Round(step, digits) == step {
			return digits, nil
		}
	}

	return 0, fmt.Errorf("%w: %v", ErrUnrepresentableStep, float64(step))
}

// Round rounds t to the given number of decimal digits, halves away from
// zero. Never is returned unchanged.
func Round(t VTimeInMs, digits int) VTimeInMs {
	if t.IsNever() {
		return t
	}

	scale := math.Pow10(digits)
	return VTimeInMs(math.Round(float64(t)*scale) / scale)
}
