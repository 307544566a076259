// SPDX-License-Identifier: MIT

// Package interp performs linear (barycentric) interpolation over scattered
// sample points.
//
// Two triangulations are provided:
//
//   - Lattice: samples sit on a regular (row, col) lattice, the case for every
//     cell of a raster. Each lattice square is split along its
//     (r,c)–(r+1,c+1) diagonal, which is a valid Delaunay triangulation of a
//     regular lattice, so point location is O(1) and no triangles are
//     materialised.
//   - Triangulation: arbitrary scattered points, triangulated with a sweep-hull
//     Delaunay build (github.com/fogleman/delaunay) and located through a
//     uniform bucket index. Zero-area triangles from collinear runs are
//     dropped.
//     Used when samples are missing (e.g. NoData cells dropped).
//
// Both are exact at sample nodes and return NaN outside the convex hull of
// the samples. A NaN at a vertex carrying non-zero weight yields NaN.
//
// Complexity:
//
//   - Lattice: O(1) per query, no allocation beyond the sample slice.
//   - Triangulation: O(n log n) build (n = points), O(1) expected query.
package interp
