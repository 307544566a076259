// SPDX-License-Identifier: MIT

package coastline

import (
	"github.com/katalvlaran/topomerge/raster"
)

// NewGrid classifies every cell of r. r is not retained.
// Complexity: O(Rows×Cols).
func NewGrid(r *raster.Raster, opts Options) (*Grid, error) {
	if r == nil {
		return nil, raster.ErrNilRaster
	}
	water := opts.Water
	if water == nil {
		water = DefaultWater()
	}
	rows, cols := r.Shape()
	land := make([]bool, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			land[i*cols+j] = !water.Match(r.Value(i, j))
		}
	}

	// Precompute neighbour offsets (drow, dcol) based on connectivity.
	var offsets [][2]int
	if opts.Conn == Conn8 {
		offsets = [][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
	} else {
		offsets = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	}

	return &Grid{
		Rows:    rows,
		Cols:    cols,
		Conn:    opts.Conn,
		hdr:     r.Header(),
		land:    land,
		offsets: offsets,
	}, nil
}

// InBounds reports whether (i, j) lies within the grid.
func (g *Grid) InBounds(i, j int) bool {
	return i >= 0 && i < g.Rows && j >= 0 && j < g.Cols
}

// IsLand reports whether cell (i, j) is land. Out-of-range cells are water.
func (g *Grid) IsLand(i, j int) bool {
	return g.InBounds(i, j) && g.land[i*g.Cols+j]
}

// Coordinate converts a row-major index back to (i, j).
func (g *Grid) Coordinate(idx int) (i, j int) {
	return idx / g.Cols, idx % g.Cols
}

// LandCells returns the number of land cells.
func (g *Grid) LandCells() int {
	n := 0
	for _, l := range g.land {
		if l {
			n++
		}
	}
	return n
}

// Islands finds all connected land components according to g.Conn.
// Islands are ordered by their first cell in row-major order.
//
// Time:   O(Rows·Cols·d), where d = 4 or 8.
// Memory: O(Rows·Cols) for visited flags and output.
func (g *Grid) Islands() []Island {
	seen := make([]bool, len(g.land))
	var out []Island

	for i0, isLand := range g.land {
		if !isLand || seen[i0] {
			continue
		}
		// BFS to collect component
		queue := []int{i0}
		seen[i0] = true
		minI, maxI := g.Rows, -1
		minJ, maxJ := g.Cols, -1

		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			ui, uj := g.Coordinate(u)
			minI, maxI = min(minI, ui), max(maxI, ui)
			minJ, maxJ = min(minJ, uj), max(maxJ, uj)
			for _, d := range g.offsets {
				vi, vj := ui+d[0], uj+d[1]
				if !g.IsLand(vi, vj) {
					continue
				}
				v := vi*g.Cols + vj
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		out = append(out, Island{Cells: queue, Bounds: g.cellBounds(minI, maxI, minJ, maxJ)})
	}
	return out
}

// Island returns island k of Islands().
func (g *Grid) Island(k int) (Island, error) {
	islands := g.Islands()
	if k < 0 || k >= len(islands) {
		return Island{}, ErrIslandIndex
	}
	return islands[k], nil
}

// LargestIsland returns the island with the most cells, or false when the
// grid holds no land.
func (g *Grid) LargestIsland() (Island, bool) {
	var best Island
	for _, isl := range g.Islands() {
		if len(isl.Cells) > len(best.Cells) {
			best = isl
		}
	}
	return best, best.Cells != nil
}

// cellBounds returns the footprint of the block rows [i0,i1] × cols [j0,j1].
func (g *Grid) cellBounds(i0, i1, j0, j1 int) raster.BoundingBox {
	h := g.hdr
	return raster.BoundingBox{
		XMin: h.XLL + float64(j0)*h.DX,
		XMax: h.XLL + float64(j1+1)*h.DX,
		YMin: h.YLL + float64(h.Rows-1-i1)*h.DY,
		YMax: h.YLL + float64(h.Rows-i0)*h.DY,
	}
}

// midpoint returns the geographic midpoint between the centres of two cells.
func (g *Grid) midpoint(i0, j0, i1, j1 int) Point {
	x0, y0 := g.hdr.CellCenter(i0, j0)
	x1, y1 := g.hdr.CellCenter(i1, j1)
	return Point{X: (x0 + x1) / 2, Y: (y0 + y1) / 2}
}

// Area returns the footprint of the island in square degrees.
func (g *Grid) Area(isl Island) float64 {
	return float64(len(isl.Cells)) * g.hdr.DX * g.hdr.DY
}
