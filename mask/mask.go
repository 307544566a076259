// SPDX-License-Identifier: MIT

package mask

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/topomerge/raster"
)

var (
	// ErrSkipRows indicates a negative SkipRows or one larger than the raster.
	ErrSkipRows = errors.New("mask: skip rows out of range")

	// ErrNilPredicate indicates Apply was called without a predicate.
	ErrNilPredicate = errors.New("mask: nil predicate")
)

// Options tunes Apply. The zero value masks every row.
type Options struct {
	// SkipRows is the number of leading (northern) rows left untouched.
	SkipRows int
}

// Apply returns a copy of r where every cell matching pred is set to
// replacement, plus the number of replaced cells. r is not modified and the
// shape never changes. opts may be nil.
func Apply(r *raster.Raster, pred Predicate, replacement float64, opts *Options) (*raster.Raster, int, error) {
	if r == nil {
		return nil, 0, raster.ErrNilRaster
	}
	if pred == nil {
		return nil, 0, ErrNilPredicate
	}
	skip := 0
	if opts != nil {
		skip = opts.SkipRows
	}
	if skip < 0 || skip > r.Rows() {
		return nil, 0, fmt.Errorf("%w: %d of %d rows", ErrSkipRows, skip, r.Rows())
	}

	replaced := 0
	out := r.Map(func(i, _ int, v float64) float64 {
		if i < skip || !pred.Match(v) {
			return v
		}
		replaced++
		return replacement
	})
	return out, replaced, nil
}

// Count reports how many cells of r match pred without building a copy.
func Count(r *raster.Raster, pred Predicate) int {
	if r == nil || pred == nil {
		return 0
	}
	n := 0
	rows, cols := r.Shape()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if pred.Match(r.Value(i, j)) {
				n++
			}
		}
	}
	return n
}
