// SPDX-License-Identifier: MIT

package coastline

import (
	"errors"

	"github.com/katalvlaran/topomerge/mask"
	"github.com/katalvlaran/topomerge/raster"
)

// ErrIslandIndex indicates a requested island index is out of range.
var ErrIslandIndex = errors.New("coastline: island index out of range")

// Connectivity selects neighbour connectivity: orthogonal (Conn4) or including diagonals (Conn8).
type Connectivity int

const (
	// Conn4 uses 4-directional connectivity: N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 uses 8-directional connectivity: N, NE, E, SE, S, SW, W, NW.
	Conn8
)

// Options contains tunable parameters for land/water classification.
type Options struct {
	// Water selects water cells; every other cell is land.
	// nil means DefaultWater().
	Water mask.Predicate
	// Conn chooses 4- or 8-directional connectivity.
	Conn Connectivity
}

// DefaultWater matches cells below sea level and NaN cells.
func DefaultWater() mask.Predicate {
	return mask.Any(mask.Below(0), mask.NaN())
}

// DefaultOptions returns Options with DefaultWater and Conn8, which keeps
// land touching at a corner in one island.
func DefaultOptions() Options {
	return Options{Water: DefaultWater(), Conn: Conn8}
}

// Point is a geographic position.
type Point struct {
	X, Y float64
}

// Polyline is an ordered shoreline trace. Closed lines do not repeat their
// first point.
type Polyline struct {
	Points []Point
	Closed bool
}

// Island is one connected land component.
type Island struct {
	// Cells holds row-major cell indices in BFS order.
	Cells []int
	// Bounds is the footprint of the island's cells.
	Bounds raster.BoundingBox
}

// Grid is an immutable land/water classification of a raster.
type Grid struct {
	Rows, Cols int
	Conn       Connectivity

	hdr     raster.Header
	land    []bool
	offsets [][2]int
}
