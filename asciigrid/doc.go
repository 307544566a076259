// SPDX-License-Identifier: MIT

// Package asciigrid reads and writes six-line-header text rasters: the ESRI
// ASCII grid ("ncols 1200") and the GeoClaw topotype 3 layout, which puts the
// value before the keyword ("1200 ncols").
//
// Recognised header keywords (case-insensitive):
//
//	ncols, nrows
//	xllcorner | xllcenter, yllcorner | yllcenter
//	cellsize  (or dx and dy for non-square cells)
//	nodata_value (optional, defaults to raster.DefaultNoData)
//
// Values are parsed to float64 as soon as they are read; sentinel comparison
// downstream is numeric, never textual. Values may wrap across lines freely,
// but their total count must equal nrows·ncols.
//
// Encode writes the registration keyword the raster was read with, so a
// decode/encode round trip keeps xllcenter files centre-registered.
package asciigrid
