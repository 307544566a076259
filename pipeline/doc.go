// SPDX-License-Identifier: MIT

// Package pipeline chains the topomerge stages into one run:
//
//	load topo + bathy  (concurrently, through a shared source cache)
//	crop bathy to the region, then topo to the cropped bathy extent
//	resample bathy onto the topo grid
//	mask bathy cells at or above sea level (and NaN) with a replacement depth
//	composite: topo wins, bathy fills topo NoData
//	save (never overwriting)
//
// Each stage runs to completion or fails the run; the context is checked
// between stages. With a checkpoint directory every intermediate raster is
// also written in the rasterpack format.
//
// Sweep runs the same configuration over a list of named regions with
// bounded parallelism. Regions are copied from the base configuration so
// per-region edits never leak between runs.
package pipeline
