// SPDX-License-Identifier: MIT

// Package coastline classifies raster cells as land or water and extracts
// the structures used for visual QA of a merge: connected land masses
// ("islands") and the shoreline between land and water.
//
// What:
//
//   - Grid wraps a raster with a water predicate (default: below sea level or
//     NaN; NoData sentinels such as -9999 are negative and count as water).
//   - Islands finds connected land components under Conn4 or Conn8.
//   - Shoreline traces the land/water boundary with marching squares over the
//     cell centres and returns ordered polylines in geographic coordinates,
//     closed around interior islands and open where they meet the raster edge.
//   - WriteCSV dumps polylines as (line, x, y) rows for plotting.
//
// Complexity:
//
//   - NewGrid, Islands, Shoreline: O(Rows×Cols×d), Memory: O(Rows×Cols)
//     (d = 4 or 8 neighbours).
//
// Errors:
//
//   - raster.ErrNilRaster: nil input.
//   - ErrIslandIndex: requested island index out of range.
package coastline
