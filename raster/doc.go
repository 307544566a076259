// SPDX-License-Identifier: MIT

// Package raster defines the central value of topomerge: a single-band,
// geographic, regularly gridded raster with its header metadata.
//
// What:
//
//   - Header carries the grid geometry: lower-left corner (XLL, YLL), per-axis
//     cell size (DX, DY), row/column counts and the declared NoData sentinel.
//   - Raster pairs a Header with a private, row-major []float64 grid whose
//     length always equals Rows*Cols.
//   - BoundingBox is a geographic window (XMin, XMax, YMin, YMax).
//
// Grid convention:
//
//	Row 0 is the NORTH edge (north-up, the order rows appear in a text
//	raster file). Cell (i, j) has its centre at
//
//	    x = XLL + (j + 0.5)·DX
//	    y = YLL + (Rows - 1 - i + 0.5)·DY
//
//	Every package in this module relies on that mapping, so two rasters cut
//	from the same window with the same cell size are co-registered: index
//	(i, j) names the same place in both.
//
// Immutability:
//
//	Constructors copy their input and no exported method mutates a Raster.
//	Stages build a new Raster (Generate, Map) instead of editing the one the
//	caller still holds.
//
// Errors:
//
//   - ErrEmptyGrid, ErrNonRectangular: bad 2D input to FromRows.
//   - ErrBadHeader, ErrDataLength: header/data inconsistencies.
//   - ErrOutOfRange: checked accessor outside the grid.
//   - ErrShapeMismatch, ErrMisalignedGrids: co-registration failures.
//   - ErrBadBox: malformed bounding box.
package raster
