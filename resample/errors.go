// SPDX-License-Identifier: MIT

package resample

import "errors"

var (
	// ErrInvalidResolution indicates a target that would downsample, or
	// resolutions that are not positive whole numbers.
	ErrInvalidResolution = errors.New("resample: invalid resolution")

	// ErrTooLarge indicates the output would exceed the configured cell cap,
	// the memory budget, or the memory available on the host.
	ErrTooLarge = errors.New("resample: output too large")
)
