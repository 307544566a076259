// SPDX-License-Identifier: MIT

// Package merge composites two co-registered rasters cell by cell.
//
// The primary raster (high-resolution topography) wins wherever it holds a
// value; cells carrying its NoData sentinel are filled from the secondary
// raster (resampled, masked bathymetry):
//
//	out[i][j] = secondary[i][j]  if primary[i][j] is primary's NoData
//	out[i][j] = primary[i][j]    otherwise
//
// The output header is the primary header. Before any cell is touched the
// inputs are validated in a fixed order: nil → shape → alignment, so a grid
// that is merely the same size but shifted by a few columns is rejected
// instead of silently producing an offset composite.
package merge
