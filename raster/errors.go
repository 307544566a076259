// SPDX-License-Identifier: MIT

package raster

import "errors"

// Every message is prefixed with "raster: ". Return the sentinels directly or
// wrap them once with fmt.Errorf("ctx: %w", ErrX); callers match with errors.Is.
var (
	// ErrNilRaster indicates a nil *Raster argument.
	ErrNilRaster = errors.New("raster: nil raster")

	// ErrEmptyGrid indicates the input 2D slice has no rows or no columns.
	ErrEmptyGrid = errors.New("raster: grid must have at least one row and one column")

	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("raster: all rows must have the same length")

	// ErrBadHeader indicates non-positive counts or cell sizes, or a
	// non-finite origin.
	ErrBadHeader = errors.New("raster: invalid header")

	// ErrDataLength indicates len(data) != Rows*Cols.
	ErrDataLength = errors.New("raster: data length does not match header")

	// ErrOutOfRange indicates a row or column index outside the grid.
	ErrOutOfRange = errors.New("raster: index out of range")

	// ErrShapeMismatch indicates two rasters that do not have the same
	// row and column counts.
	ErrShapeMismatch = errors.New("raster: grid shapes differ")

	// ErrMisalignedGrids indicates two rasters of equal shape whose origin or
	// cell size differ beyond tolerance, so index (i, j) names different places.
	ErrMisalignedGrids = errors.New("raster: grids are not co-registered")

	// ErrBadBox indicates a bounding box with non-finite or inverted bounds.
	ErrBadBox = errors.New("raster: invalid bounding box")
)
