// SPDX-License-Identifier: MIT

package asciigrid

import "errors"

var (
	// ErrBadHeader indicates a missing, duplicated or malformed header line.
	ErrBadHeader = errors.New("asciigrid: bad header")

	// ErrDataCount indicates the number of values differs from nrows·ncols.
	ErrDataCount = errors.New("asciigrid: value count does not match header")

	// ErrBadValue indicates a data token that is not a number.
	ErrBadValue = errors.New("asciigrid: bad value")
)
