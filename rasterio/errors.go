// SPDX-License-Identifier: MIT

package rasterio

import "errors"

var (
	// ErrDestinationExists indicates Save found its target already present.
	ErrDestinationExists = errors.New("rasterio: destination exists")

	// ErrBadURI indicates a URI that names no object.
	ErrBadURI = errors.New("rasterio: bad uri")

	// ErrNotFound indicates Load could not find its source.
	ErrNotFound = errors.New("rasterio: not found")
)
