package buddhabrot

import (
	"math"
)

// Real is the floating point type used throughout the engine.
type Real = float64

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// frac returns x - floor(x), always in [0, 1).
func frac(x Real) Real {
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}
	return f
}
