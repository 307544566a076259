// SPDX-License-Identifier: MIT

package merge

import (
	"github.com/katalvlaran/topomerge/raster"
)

// Source records which input a composite cell came from.
type Source uint8

const (
	// Primary marks a cell kept from the primary raster.
	Primary Source = iota
	// Secondary marks a cell filled from the secondary raster.
	Secondary
)

func (s Source) String() string {
	if s == Secondary {
		return "secondary"
	}
	return "primary"
}

// Options tunes validation and sentinel matching. The zero value uses the
// raster package defaults.
type Options struct {
	// AlignTolerance is the allowed origin/cell-size difference, as a
	// fraction of a cell. Zero means raster.DefaultAlignTolerance.
	AlignTolerance float64

	// SentinelEpsilon is the relative tolerance for matching the primary
	// NoData value. Zero means raster.DefaultNoDataEpsilon.
	SentinelEpsilon float64

	// ShapeOnly skips the geographic alignment check and compares shapes
	// only, for inputs whose headers are known to be stale.
	ShapeOnly bool
}

func (o *Options) resolve() Options {
	out := Options{
		AlignTolerance:  raster.DefaultAlignTolerance,
		SentinelEpsilon: raster.DefaultNoDataEpsilon,
	}
	if o == nil {
		return out
	}
	if o.AlignTolerance > 0 {
		out.AlignTolerance = o.AlignTolerance
	}
	if o.SentinelEpsilon > 0 {
		out.SentinelEpsilon = o.SentinelEpsilon
	}
	out.ShapeOnly = o.ShapeOnly
	return out
}

// Result is a composite with per-cell provenance.
type Result struct {
	Raster *raster.Raster

	// Provenance is row-major, one entry per cell.
	Provenance []Source

	FromPrimary   int
	FromSecondary int
}

// SourceAt returns the provenance of cell (i, j).
func (r *Result) SourceAt(i, j int) Source {
	return r.Provenance[i*r.Raster.Cols()+j]
}

// Merge fills primary's NoData cells from secondary and returns the
// composite. Returns ErrNilRaster, ErrShapeMismatch or ErrMisalignedGrids.
func Merge(primary, secondary *raster.Raster, opts *Options) (*raster.Raster, error) {
	res, err := Composite(primary, secondary, opts)
	if err != nil {
		return nil, err
	}
	return res.Raster, nil
}

// Composite is Merge plus provenance and counts.
// Complexity: O(Rows·Cols) time, one output grid plus one byte per cell.
func Composite(primary, secondary *raster.Raster, opts *Options) (*Result, error) {
	o := opts.resolve()
	if err := validate(primary, secondary, o); err != nil {
		return nil, err
	}

	nodata := primary.Header().NoData
	prov := make([]Source, primary.Header().Cells())
	fromSecondary := 0
	out := primary.Map(func(i, j int, v float64) float64 {
		if !raster.MatchesSentinel(v, nodata, o.SentinelEpsilon) {
			return v
		}
		prov[primary.Index(i, j)] = Secondary
		fromSecondary++
		return secondary.Value(i, j)
	})

	return &Result{
		Raster:        out,
		Provenance:    prov,
		FromPrimary:   len(prov) - fromSecondary,
		FromSecondary: fromSecondary,
	}, nil
}

func validate(primary, secondary *raster.Raster, o Options) error {
	if o.ShapeOnly {
		if err := raster.ValidateNotNil(primary, secondary); err != nil {
			return err
		}
		return raster.ValidateSameShape(primary, secondary)
	}
	return raster.ValidateCoRegistered(primary, secondary, o.AlignTolerance)
}
