// SPDX-License-Identifier: MIT

// Package rasterio loads and saves rasters by URI.
//
// A URI is either a local path (optionally "file://") or a Google Cloud
// Storage object "gs://bucket/object". The suffix chain selects the codec:
//
//	*.rmp            rasterpack checkpoint
//	*.tt3, *.tt2     text raster, GeoClaw header layout
//	anything else    text raster, ESRI header layout
//	... + .gz | .zst gzip or zstd compression around either
//
// Save never overwrites. It fails with ErrDestinationExists when the target is
// already present, and a failed write leaves nothing behind: local output is
// written to a temporary file in the target directory and hard-linked into
// place only once complete; GCS output is uploaded with a does-not-exist
// precondition and abandoned on error.
package rasterio
