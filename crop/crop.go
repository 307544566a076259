// SPDX-License-Identifier: MIT

package crop

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/topomerge/raster"
)

// ErrEmptyRegion indicates the bounding box does not intersect the raster.
var ErrEmptyRegion = errors.New("crop: bounding box does not intersect raster extent")

// edgeEps is the tolerance, in cells, for centres sitting exactly on a box edge.
const edgeEps = 1e-9

// Window is the index block a crop retains: rows [Row0, Row1], cols [Col0, Col1].
type Window struct {
	Row0, Row1 int
	Col0, Col1 int
}

// Rows returns the number of retained rows.
func (w Window) Rows() int { return w.Row1 - w.Row0 + 1 }

// Cols returns the number of retained columns.
func (w Window) Cols() int { return w.Col1 - w.Col0 + 1 }

// Plan computes the retained window for h and bbox without touching any data.
// Returns ErrEmptyRegion when no cell centre falls inside bbox.
func Plan(h raster.Header, bbox raster.BoundingBox) (Window, error) {
	if err := bbox.Validate(); err != nil {
		return Window{}, err
	}
	if err := h.Validate(); err != nil {
		return Window{}, err
	}
	col0, col1, ok := span(bbox.XMin, bbox.XMax, h.XLL, h.DX, h.Cols)
	if !ok {
		return Window{}, fmt.Errorf("%w: %v vs extent %v", ErrEmptyRegion, bbox, h.Extent())
	}
	// k counts rows from the south; row index i = Rows-1-k.
	k0, k1, ok := span(bbox.YMin, bbox.YMax, h.YLL, h.DY, h.Rows)
	if !ok {
		return Window{}, fmt.Errorf("%w: %v vs extent %v", ErrEmptyRegion, bbox, h.Extent())
	}
	return Window{
		Row0: h.Rows - 1 - k1,
		Row1: h.Rows - 1 - k0,
		Col0: col0,
		Col1: col1,
	}, nil
}

// span returns the inclusive index range of cells along one axis whose
// centres origin+(k+0.5)·d fall inside [lo, hi].
func span(lo, hi, origin, d float64, n int) (first, last int, ok bool) {
	first = int(math.Ceil((lo-origin)/d - 0.5 - edgeEps))
	last = int(math.Floor((hi-origin)/d - 0.5 + edgeEps))
	first = raster.Clamp(first, 0, n)
	last = raster.Clamp(last, -1, n-1)
	if first > last {
		return 0, 0, false
	}
	return first, last, true
}

// Crop returns the sub-raster of r whose cell centres lie inside bbox.
// The input is not modified.
func Crop(r *raster.Raster, bbox raster.BoundingBox) (*raster.Raster, error) {
	if err := raster.ValidateNotNil(r); err != nil {
		return nil, err
	}
	src := r.Header()
	w, err := Plan(src, bbox)
	if err != nil {
		return nil, err
	}

	h := src
	h.Rows, h.Cols = w.Rows(), w.Cols()
	h.XLL = src.XLL + float64(w.Col0)*src.DX
	// Southern-most retained row is w.Row1, which is (src.Rows-1-w.Row1) rows
	// above the source's southern edge.
	h.YLL = src.YLL + float64(src.Rows-1-w.Row1)*src.DY

	return raster.Generate(h, func(i, j int) float64 {
		return r.Value(w.Row0+i, w.Col0+j)
	})
}

// To crops r to the footprint of ref. Use it for the second raster of a pair
// so both are cut to the same resulting extent.
func To(r, ref *raster.Raster) (*raster.Raster, error) {
	if err := raster.ValidateNotNil(r, ref); err != nil {
		return nil, err
	}
	return Crop(r, ref.Extent())
}
