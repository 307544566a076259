// SPDX-License-Identifier: MIT

// Package mask replaces raster cells that satisfy a predicate with a fixed
// value.
//
// The typical use is levelling an interpolated bathymetry raster before it
// fills gaps in a topography raster: every cell at or above sea level is
// forced to a shallow depth (e.g. -2 m) so coarse land values never leak
// into the merged terrain.
//
//	pred := mask.Any(mask.AboveSeaLevel(), mask.NaN())
//	out, n, err := mask.Apply(bathy, pred, -2, nil)
//
// Predicates compare numerically. Sentinel uses a relative tolerance so
// "-9999" and "-9.9990000e+03" match regardless of how the file spelled them.
//
// Options.SkipRows leaves a named number of leading (northern) rows untouched.
// It defaults to zero; a value larger than the raster height is a
// configuration error (ErrSkipRows).
package mask
