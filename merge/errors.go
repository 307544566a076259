// SPDX-License-Identifier: MIT

package merge

import "github.com/katalvlaran/topomerge/raster"

// Aliases so callers can match merge failures without importing raster.
var (
	// ErrShapeMismatch indicates the inputs differ in rows or columns.
	ErrShapeMismatch = raster.ErrShapeMismatch

	// ErrMisalignedGrids indicates equal shapes with different origin or cell size.
	ErrMisalignedGrids = raster.ErrMisalignedGrids

	// ErrNilRaster indicates a nil input.
	ErrNilRaster = raster.ErrNilRaster
)
