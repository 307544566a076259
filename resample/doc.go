// SPDX-License-Identifier: MIT

// Package resample refines a coarse raster onto a finer grid by linear
// (barycentric) interpolation over the source cell centres.
//
// Two entry points cover the two ways a target grid is described:
//
//   - Resample / ByResolution work in index space. The source centres are the
//     lattice nodes (0..rows-1, 0..cols-1) and the target is an evenly spaced
//     targetRows×targetCols query grid spanning the same range, so the first
//     and last centres of every row and column are preserved exactly.
//   - Onto works in geographic space. The target is a raster.Header and every
//     output cell is evaluated at its own centre, so the result is
//     co-registered with that header and can be composited cell-for-cell.
//
// Behaviour:
//
//   - Output values at source nodes equal the source values exactly.
//   - Queries outside the source lattice yield NaN. Onto is the exception at
//     the rim: centres inside the source footprint but beyond the outer
//     centres take the nearest edge value (edge extrapolation, not
//     interpolation).
//   - By default NoData samples are interpolated as ordinary numbers. With
//     WithSkipNoData they are dropped and the remaining samples are
//     triangulated as scattered points (interp.Triangulation).
//   - Before allocating, the output footprint is checked against WithMaxCells,
//     WithMemoryBudget and the memory the host reports as available.
//
// Errors:
//
//   - ErrInvalidResolution for downsampling, non-positive or non-integer
//     resolution inputs.
//   - ErrTooLarge when the guard refuses the allocation.
//
// Complexity: O(targetRows·targetCols) for the lattice path; the scattered
// path adds an O(n log n) triangulation build over the n valid samples.
package resample
