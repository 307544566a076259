// SPDX-License-Identifier: MIT

package interp

import (
	"errors"
	"math"
)

var (
	// ErrEmptyLattice indicates a lattice with no rows or no columns.
	ErrEmptyLattice = errors.New("interp: lattice must have at least one row and one column")

	// ErrLatticeLength indicates len(values) != rows*cols.
	ErrLatticeLength = errors.New("interp: lattice values length mismatch")
)

// nodeEps absorbs rounding when a query sits on the lattice boundary.
const nodeEps = 1e-9

// Lattice interpolates row-major samples placed at integer (row, col)
// positions. It never copies or mutates values.
type Lattice struct {
	rows, cols int
	values     []float64
}

// NewLattice wraps values (row-major, len rows*cols) as a sample lattice.
func NewLattice(rows, cols int, values []float64) (*Lattice, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyLattice
	}
	if len(values) != rows*cols {
		return nil, ErrLatticeLength
	}
	return &Lattice{rows: rows, cols: cols, values: values}, nil
}

// Rows returns the number of lattice rows.
func (l *Lattice) Rows() int { return l.rows }

// Cols returns the number of lattice columns.
func (l *Lattice) Cols() int { return l.cols }

// At interpolates at fractional position (fr, fc).
// Returns NaN outside [0,rows-1]×[0,cols-1].
func (l *Lattice) At(fr, fc float64) float64 {
	r0, u, ok := locate(fr, l.rows)
	if !ok {
		return math.NaN()
	}
	c0, v, ok := locate(fc, l.cols)
	if !ok {
		return math.NaN()
	}

	z00 := l.values[r0*l.cols+c0]
	switch {
	case l.rows == 1 && l.cols == 1:
		return z00
	case l.rows == 1:
		return weighted(1-v, z00) + weighted(v, l.values[c0+1])
	case l.cols == 1:
		return weighted(1-u, z00) + weighted(u, l.values[r0+1])
	}

	z01 := l.values[r0*l.cols+c0+1]
	z10 := l.values[(r0+1)*l.cols+c0]
	z11 := l.values[(r0+1)*l.cols+c0+1]

	// Triangle (0,0),(0,1),(1,1) above the diagonal, (0,0),(1,0),(1,1) below.
	if v >= u {
		return weighted(1-v, z00) + weighted(v-u, z01) + weighted(u, z11)
	}
	return weighted(1-u, z00) + weighted(u-v, z10) + weighted(v, z11)
}

// locate splits a fractional coordinate into its lower node and the local
// offset in [0,1]. The last node is folded into the last interval so that
// f == n-1 is exact.
func locate(f float64, n int) (k int, t float64, ok bool) {
	if math.IsNaN(f) || f < -nodeEps || f > float64(n-1)+nodeEps {
		return 0, 0, false
	}
	if n == 1 {
		return 0, 0, true
	}
	f = math.Max(0, math.Min(f, float64(n-1)))
	k = int(math.Floor(f))
	if k >= n-1 {
		k = n - 2
	}
	return k, f - float64(k), true
}
