// SPDX-License-Identifier: MIT

// Package crop extracts the part of a raster that falls inside a geographic
// bounding box and recomputes the header to match the cut.
//
// Policy:
//
//   - A row or column is retained when its CELL CENTRE lies inside the box,
//     boundaries included (tolerance: 1e-9 of a cell).
//   - The new origin is the lower-left corner of the retained block; cell
//     size, NoData and registration are inherited unchanged.
//
// Co-registering a pair:
//
//	Crop the first raster with the requested box, then crop the second with
//	To(second, first) so it is cut to the first crop's RESULTING extent, not
//	the requested box:
//
//	    bathySmall, err := crop.Crop(bathy, region)
//	    topoSmall, err := crop.To(topo, bathySmall)
//
// Errors:
//
//   - ErrEmptyRegion: the box keeps no cell of the raster.
//   - raster.ErrBadBox: the box is malformed.
//   - raster.ErrNilRaster: nil input.
//
// Complexity: O(rows·cols) of the retained block, time and memory.
package crop
