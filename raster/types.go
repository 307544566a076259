// SPDX-License-Identifier: MIT

package raster

import (
	"fmt"
	"math"
)

// DefaultNoData is the sentinel assumed when a source declares none.
const DefaultNoData = -9999.0

// DefaultNoDataEpsilon is the relative tolerance used when comparing a cell
// against the NoData sentinel (|v-NoData| <= eps·max(1,|NoData|)).
const DefaultNoDataEpsilon = 1e-9

// DefaultAlignTolerance is the co-registration tolerance, as a fraction of
// one cell, applied to origin and cell-size comparisons.
const DefaultAlignTolerance = 1e-3

// Registration records which origin keyword a source used. Geometry is always
// stored corner-registered; Registration only affects how writers label it.
type Registration int

const (
	// Corner: the source declared xllcorner/yllcorner.
	Corner Registration = iota
	// Center: the source declared xllcenter/yllcenter.
	Center
)

// String returns "corner" or "center".
func (r Registration) String() string {
	if r == Center {
		return "center"
	}
	return "corner"
}

// Header describes the geometry of a raster.
//
// XLL/YLL is the lower-left corner of the lower-left cell. DX/DY are cell
// sizes in degrees. NoData is the declared "no measurement" sentinel.
type Header struct {
	Cols, Rows   int
	XLL, YLL     float64
	DX, DY       float64
	NoData       float64
	Registration Registration
}

// Validate reports ErrBadHeader when counts or cell sizes are non-positive,
// Rows·Cols overflows int, or any coordinate is non-finite.
func (h Header) Validate() error {
	if h.Rows <= 0 || h.Cols <= 0 {
		return fmt.Errorf("%w: rows=%d cols=%d", ErrBadHeader, h.Rows, h.Cols)
	}
	if h.Rows > math.MaxInt/h.Cols {
		return fmt.Errorf("%w: %dx%d cells overflows int", ErrBadHeader, h.Rows, h.Cols)
	}
	if !(h.DX > 0) || !(h.DY > 0) || math.IsInf(h.DX, 0) || math.IsInf(h.DY, 0) {
		return fmt.Errorf("%w: cell size %gx%g", ErrBadHeader, h.DX, h.DY)
	}
	if !isFinite(h.XLL) || !isFinite(h.YLL) {
		return fmt.Errorf("%w: origin (%g, %g)", ErrBadHeader, h.XLL, h.YLL)
	}
	return nil
}

// Cells returns Rows*Cols.
func (h Header) Cells() int {
	return h.Rows * h.Cols
}

// Extent returns the footprint of the whole grid.
func (h Header) Extent() BoundingBox {
	return BoundingBox{
		XMin: h.XLL,
		XMax: h.XLL + float64(h.Cols)*h.DX,
		YMin: h.YLL,
		YMax: h.YLL + float64(h.Rows)*h.DY,
	}
}

// CellCenter returns the geographic centre of cell (i, j). Row 0 is north.
func (h Header) CellCenter(i, j int) (x, y float64) {
	x = h.XLL + (float64(j)+0.5)*h.DX
	y = h.YLL + (float64(h.Rows-1-i)+0.5)*h.DY
	return x, y
}

// FractionalIndex maps a geographic position to fractional (row, col)
// indices so that cell centres land on whole numbers.
func (h Header) FractionalIndex(x, y float64) (fr, fc float64) {
	fc = (x-h.XLL)/h.DX - 0.5
	fr = float64(h.Rows-1) - ((y-h.YLL)/h.DY - 0.5)
	return fr, fc
}

// IsNoData reports whether v equals the declared sentinel within
// DefaultNoDataEpsilon. A NaN sentinel matches NaN values.
func (h Header) IsNoData(v float64) bool {
	return MatchesSentinel(v, h.NoData, DefaultNoDataEpsilon)
}

// String renders the header in one line for logs.
func (h Header) String() string {
	return fmt.Sprintf("%dx%d @(%g,%g) d=(%g,%g) nodata=%g %s",
		h.Rows, h.Cols, h.XLL, h.YLL, h.DX, h.DY, h.NoData, h.Registration)
}

// BoundingBox is a geographic window in degrees. It is a crop parameter only
// and is never persisted with a raster.
type BoundingBox struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Validate reports ErrBadBox for non-finite or inverted bounds.
func (b BoundingBox) Validate() error {
	for _, v := range [...]float64{b.XMin, b.XMax, b.YMin, b.YMax} {
		if !isFinite(v) {
			return fmt.Errorf("%w: non-finite bound in %v", ErrBadBox, b)
		}
	}
	if b.XMin >= b.XMax || b.YMin >= b.YMax {
		return fmt.Errorf("%w: inverted bounds in %v", ErrBadBox, b)
	}
	return nil
}

// Contains reports whether (x, y) lies inside b, boundaries included.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// Overlaps reports whether the interiors of a and b intersect.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return b.XMin < o.XMax && o.XMin < b.XMax && b.YMin < o.YMax && o.YMin < b.YMax
}

// String renders the box in the [xlower,xupper,ylower,yupper] order used by
// region lists.
func (b BoundingBox) String() string {
	return fmt.Sprintf("[%g,%g,%g,%g]", b.XMin, b.XMax, b.YMin, b.YMax)
}

// Raster is an immutable header + row-major grid pair.
// data holds Rows*Cols samples; data[i*Cols+j] is cell (i, j), row 0 north.
type Raster struct {
	hdr  Header
	data []float64
}
