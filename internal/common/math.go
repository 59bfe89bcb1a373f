package common

import (
	"math"
	"sort"
)

// Trunc drops the fractional part toward zero and converts to int.
func Trunc(x float64) int {
	return int(math.Trunc(x))
}

// Round rounds half-way cases up (toward +Inf), so Round(-2.5) is -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}

// ClampInt limits x to [lo, hi].
func ClampInt(x, lo, hi int) int {
	return max(lo, min(x, hi))
}

// Abs returns the absolute value of an integer
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

var approximationScale = []float64{0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000}

// Approximate rounds value to a "nice" step about a tenth of its size, the
// way figures are shown to players who should not see exact counts.
func Approximate(value float64) float64 {
	return ApproximateWithAccuracy(value, 0.1)
}

// ApproximateWithAccuracy is Approximate with a custom step ratio.
func ApproximateWithAccuracy(value, accuracy float64) float64 {
	i := sort.SearchFloat64s(approximationScale, value*accuracy)
	if i >= len(approximationScale) {
		i = len(approximationScale) - 1
	}
	step := approximationScale[i]
	return math.Round(value/step) * step
}
