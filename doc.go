// Package topomerge builds seamless elevation grids by merging a
// high-resolution topography raster with a low-resolution bathymetry raster
// of the same coastline.
//
// 🚀 What does topomerge do?
//
//	The topography grid is precise on land but carries NoData over the sea;
//	the bathymetry grid covers the sea floor at a coarser cell size. The
//	merge:
//		• crops both to a region of interest (crop)
//		• refines the bathymetry onto the topography grid by linear
//		  barycentric interpolation (interp, resample)
//		• replaces bathymetry cells at or above sea level with a fixed
//		  shallow depth (mask)
//		• fills topography NoData cells from the bathymetry (merge)
//
// ✨ Around the core:
//
//   - raster/:     header + grid model, validators, statistics
//   - asciigrid/:  six-line ESRI / GeoClaw text codec
//   - rasterpack/: msgpack+zstd checkpoints
//   - rasterio/:   load and save by URI (local, gs://, gzip, zstd), never overwriting
//   - coastline/:  islands and shoreline polylines for visual QA
//   - render/:     PNG and terminal previews
//   - pipeline/:   the end-to-end run, region sweeps and JSON reports
//
// Coordinates are geographic degrees; row 0 of every grid is the northern
// edge. The command in cmd/topomerge exposes the pipeline and every stage.
//
//	go install github.com/katalvlaran/topomerge/cmd/topomerge@latest
package topomerge
