// SPDX-License-Identifier: MIT

package mask

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/topomerge/raster"
)

// Predicate selects the cells Apply replaces.
type Predicate interface {
	Match(v float64) bool
	String() string
}

// Func adapts a plain function to Predicate.
type Func struct {
	Name string
	Fn   func(v float64) bool
}

func (f Func) Match(v float64) bool { return f.Fn(v) }
func (f Func) String() string       { return f.Name }

type sentinel struct {
	value, eps float64
}

// Sentinel matches values equal to v within relative tolerance eps.
// A NaN sentinel matches NaN. Negative eps falls back to
// raster.DefaultNoDataEpsilon.
func Sentinel(v, eps float64) Predicate {
	if eps < 0 || math.IsNaN(eps) {
		eps = raster.DefaultNoDataEpsilon
	}
	return sentinel{value: v, eps: eps}
}

// NoData matches the NoData sentinel declared by h.
func NoData(h raster.Header) Predicate {
	return sentinel{value: h.NoData, eps: raster.DefaultNoDataEpsilon}
}

func (s sentinel) Match(v float64) bool { return raster.MatchesSentinel(v, s.value, s.eps) }
func (s sentinel) String() string       { return fmt.Sprintf("== %g", s.value) }

type atOrAbove float64

// AtOrAbove matches v >= threshold. NaN never matches.
func AtOrAbove(threshold float64) Predicate { return atOrAbove(threshold) }

// AboveSeaLevel is AtOrAbove(0): land cells, shoreline included.
func AboveSeaLevel() Predicate { return atOrAbove(0) }

func (t atOrAbove) Match(v float64) bool { return v >= float64(t) }
func (t atOrAbove) String() string       { return fmt.Sprintf(">= %g", float64(t)) }

type below float64

// Below matches v < threshold. NaN never matches.
func Below(threshold float64) Predicate { return below(threshold) }

func (t below) Match(v float64) bool { return v < float64(t) }
func (t below) String() string       { return fmt.Sprintf("< %g", float64(t)) }

type isNaN struct{}

// NaN matches NaN values, e.g. interpolation results outside the sample hull.
func NaN() Predicate { return isNaN{} }

func (isNaN) Match(v float64) bool { return math.IsNaN(v) }
func (isNaN) String() string       { return "NaN" }

type anyOf []Predicate

// Any matches when at least one of ps matches. Nil entries are skipped;
// Any() with no predicates matches nothing.
func Any(ps ...Predicate) Predicate {
	out := make(anyOf, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (a anyOf) Match(v float64) bool {
	for _, p := range a {
		if p.Match(v) {
			return true
		}
	}
	return false
}

func (a anyOf) String() string {
	parts := make([]string, len(a))
	for i, p := range a {
		parts[i] = p.String()
	}
	return "any(" + strings.Join(parts, ", ") + ")"
}
