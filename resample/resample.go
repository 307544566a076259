// SPDX-License-Identifier: MIT

package resample

import (
	"fmt"
	"math"

	"github.com/katalvlaran/topomerge/interp"
	"github.com/katalvlaran/topomerge/raster"
)

// cellSizeSlack is the relative tolerance when comparing cell sizes in Onto.
const cellSizeSlack = 1e-9

// evaluator returns the interpolated value at fractional source indices.
type evaluator func(fr, fc float64) float64

// Resample refines r onto a targetRows×targetCols grid in index space.
// Query (q, p) maps to source position (q·(rows-1)/(targetRows-1),
// p·(cols-1)/(targetCols-1)). The output header keeps the outer cell centres
// of r and shrinks the cell size accordingly.
// Returns ErrInvalidResolution when a target dimension is smaller than the
// source, and ErrTooLarge when the footprint guard refuses the allocation.
func Resample(r *raster.Raster, targetRows, targetCols int, opts ...Option) (*raster.Raster, error) {
	if r == nil {
		return nil, raster.ErrNilRaster
	}
	rows, cols := r.Shape()
	if targetRows < rows || targetCols < cols {
		return nil, fmt.Errorf("%w: %dx%d → %dx%d would downsample",
			ErrInvalidResolution, rows, cols, targetRows, targetCols)
	}
	o := gatherOptions(opts...)
	if err := checkFootprint(targetRows, targetCols, o); err != nil {
		return nil, err
	}
	eval, err := newEvaluator(r, o)
	if err != nil {
		return nil, err
	}

	h := refinedHeader(r.Header(), targetRows, targetCols)
	return raster.Generate(h, func(i, j int) float64 {
		return eval(axisPosition(i, rows, targetRows), axisPosition(j, cols, targetCols))
	})
}

// ScaleFactor validates a pair of resolutions in arc-seconds and returns the
// integer refinement factor resIn / resOut (floored).
// Both must be whole numbers ≥ 1 and resIn ≥ resOut.
func ScaleFactor(resIn, resOut float64) (int, error) {
	for _, v := range [2]float64{resIn, resOut} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 1 || v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: resolutions must be whole numbers ≥ 1, got %g and %g",
				ErrInvalidResolution, resIn, resOut)
		}
	}
	if resIn < resOut {
		return 0, fmt.Errorf("%w: input resolution %g is finer than output %g",
			ErrInvalidResolution, resIn, resOut)
	}
	return int(math.Floor(resIn / resOut)), nil
}

// ByResolution refines r by ScaleFactor(resIn, resOut) along both axes.
func ByResolution(r *raster.Raster, resIn, resOut float64, opts ...Option) (*raster.Raster, error) {
	if r == nil {
		return nil, raster.ErrNilRaster
	}
	k, err := ScaleFactor(resIn, resOut)
	if err != nil {
		return nil, err
	}
	rows, err := scaledCount(r.Rows(), k)
	if err != nil {
		return nil, err
	}
	cols, err := scaledCount(r.Cols(), k)
	if err != nil {
		return nil, err
	}
	return Resample(r, rows, cols, opts...)
}

// Onto interpolates r at every cell centre of target. The result carries the
// target geometry and r's NoData value, so it is co-registered with any raster
// built on target.
//
// Centres beyond r's outermost cell centres but still inside its footprint
// (the outer half cell) are extrapolated: they take the value at the nearest
// point on the edge of the centre lattice. They are not interpolated.
// Centres outside the footprint yield NaN.
// Returns ErrInvalidResolution when target cells are larger than r's.
func Onto(r *raster.Raster, target raster.Header, opts ...Option) (*raster.Raster, error) {
	if r == nil {
		return nil, raster.ErrNilRaster
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	src := r.Header()
	if target.DX > src.DX*(1+cellSizeSlack) || target.DY > src.DY*(1+cellSizeSlack) {
		return nil, fmt.Errorf("%w: target cell (%g,%g) coarser than source (%g,%g)",
			ErrInvalidResolution, target.DX, target.DY, src.DX, src.DY)
	}
	o := gatherOptions(opts...)
	if err := checkFootprint(target.Rows, target.Cols, o); err != nil {
		return nil, err
	}
	eval, err := newEvaluator(r, o)
	if err != nil {
		return nil, err
	}

	ext := src.Extent()
	maxR, maxC := float64(src.Rows-1), float64(src.Cols-1)
	out := target
	out.NoData = src.NoData
	return raster.Generate(out, func(i, j int) float64 {
		x, y := target.CellCenter(i, j)
		if !ext.Contains(x, y) {
			return math.NaN()
		}
		fr, fc := src.FractionalIndex(x, y)
		return eval(raster.Clamp(fr, 0, maxR), raster.Clamp(fc, 0, maxC))
	})
}

// newEvaluator picks the lattice path, or the scattered path when NoData
// samples must be skipped and at least one is present.
func newEvaluator(r *raster.Raster, o Options) (evaluator, error) {
	rows, cols := r.Shape()
	vals := r.Values()

	if o.skipNoData {
		pts := make([]interp.Point, 0, len(vals))
		keep := make([]float64, 0, len(vals))
		for idx, v := range vals {
			if math.IsNaN(v) || r.IsNoData(v) {
				continue
			}
			i, j := r.Coordinate(idx)
			pts = append(pts, interp.Point{X: float64(j), Y: float64(i)})
			keep = append(keep, v)
		}
		if len(pts) < len(vals) {
			tr, err := interp.NewTriangulation(pts, keep)
			if err != nil {
				return nil, fmt.Errorf("resample: valid samples: %w", err)
			}
			return func(fr, fc float64) float64 { return tr.At(fc, fr) }, nil
		}
	}

	lat, err := interp.NewLattice(rows, cols, vals)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	return lat.At, nil
}

// axisPosition maps query index q of t evenly spaced positions onto [0, n-1].
func axisPosition(q, n, t int) float64 {
	if n == 1 || t == 1 {
		return 0
	}
	return float64(q) * float64(n-1) / float64(t-1)
}

// refinedHeader returns the header of a tr×tc refinement of h.
func refinedHeader(h raster.Header, tr, tc int) raster.Header {
	out := h
	out.Rows, out.Cols = tr, tc
	out.DY, out.YLL = refineAxis(h.YLL, h.DY, h.Rows, tr)
	out.DX, out.XLL = refineAxis(h.XLL, h.DX, h.Cols, tc)
	return out
}

// refineAxis keeps the first and last centres of an n-cell axis fixed when it
// is split into t cells. A single-cell axis keeps its footprint instead.
func refineAxis(origin, d float64, n, t int) (nd, norigin float64) {
	if n == 1 || t == 1 {
		return d * float64(n) / float64(t), origin
	}
	nd = d * float64(n-1) / float64(t-1)
	return nd, origin + 0.5*(d-nd)
}
