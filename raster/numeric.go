// SPDX-License-Identifier: MIT

package raster

import (
	"math"

	"golang.org/x/exp/constraints"
)

// MatchesSentinel reports whether v equals sentinel within a relative
// tolerance eps·max(1,|sentinel|). Values are compared numerically, so
// "-9999", "-9999.0" and "-9.999e+03" in a source file all match.
// A NaN sentinel matches NaN only.
func MatchesSentinel(v, sentinel, eps float64) bool {
	if math.IsNaN(sentinel) {
		return math.IsNaN(v)
	}
	if math.IsNaN(v) {
		return false
	}
	return math.Abs(v-sentinel) <= eps*math.Max(1, math.Abs(sentinel))
}

// Near reports |a-b| <= tol.
func Near[T constraints.Float](a, b, tol T) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// Clamp limits x to [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
