// SPDX-License-Identifier: MIT

package coastline

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"
)

// Edge identifiers: each contour vertex sits on the segment between two
// neighbouring cell centres. Horizontal segments (i,j)-(i,j+1) get even ids,
// vertical segments (i,j)-(i+1,j) odd ids.
func (g *Grid) hEdge(i, j int) int { return 2 * (i*g.Cols + j) }
func (g *Grid) vEdge(i, j int) int { return 2*(i*g.Cols+j) + 1 }

func (g *Grid) edgePoint(e int) Point {
	i, j := g.Coordinate(e / 2)
	if e%2 == 0 {
		return g.midpoint(i, j, i, j+1)
	}
	return g.midpoint(i, j, i+1, j)
}

// Shoreline traces the land/water boundary with marching squares over the
// cell-centre lattice. Vertices sit midway between a land and a water centre.
// Ambiguous saddles follow g.Conn: Conn8 keeps diagonal land connected,
// Conn4 separates it.
//
// Polylines are returned open ones first (they end on the raster edge), then
// closed rings, each group ordered by its lowest edge id.
func (g *Grid) Shoreline() []Polyline {
	adj := make(map[int][]int)
	link := func(a, b int) {
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}

	for i := 0; i+1 < g.Rows; i++ {
		for j := 0; j+1 < g.Cols; j++ {
			top, bottom := g.hEdge(i, j), g.hEdge(i+1, j)
			left, right := g.vEdge(i, j), g.vEdge(i, j+1)

			c := 0
			if g.IsLand(i, j) {
				c |= 8
			}
			if g.IsLand(i, j+1) {
				c |= 4
			}
			if g.IsLand(i+1, j+1) {
				c |= 2
			}
			if g.IsLand(i+1, j) {
				c |= 1
			}

			switch c {
			case 1, 14:
				link(left, bottom)
			case 2, 13:
				link(bottom, right)
			case 3, 12:
				link(left, right)
			case 4, 11:
				link(top, right)
			case 6, 9:
				link(top, bottom)
			case 7, 8:
				link(left, top)
			case 5: // tr and bl land
				if g.Conn == Conn8 {
					link(left, top)
					link(bottom, right)
				} else {
					link(top, right)
					link(left, bottom)
				}
			case 10: // tl and br land
				if g.Conn == Conn8 {
					link(top, right)
					link(left, bottom)
				} else {
					link(left, top)
					link(bottom, right)
				}
			}
		}
	}

	keys := make([]int, 0, len(adj))
	for k := range adj {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	visited := make(map[int]bool, len(adj))
	walk := func(start int) []int {
		chain := []int{start}
		visited[start] = true
		prev, cur := -1, start
		for {
			next := -1
			for _, n := range adj[cur] {
				if n != prev && !visited[n] {
					next = n
					break
				}
			}
			if next < 0 {
				return chain
			}
			visited[next] = true
			chain = append(chain, next)
			prev, cur = cur, next
		}
	}

	var lines []Polyline
	for _, k := range keys {
		if len(adj[k]) == 1 && !visited[k] {
			lines = append(lines, g.polyline(walk(k), false))
		}
	}
	for _, k := range keys {
		if !visited[k] {
			lines = append(lines, g.polyline(walk(k), true))
		}
	}
	return lines
}

func (g *Grid) polyline(ids []int, closed bool) Polyline {
	pts := make([]Point, len(ids))
	for i, id := range ids {
		pts[i] = g.edgePoint(id)
	}
	return Polyline{Points: pts, Closed: closed}
}

// WriteCSV writes lines as "line,x,y" rows. Closed lines repeat their first
// point so plotting tools draw the closing segment.
func WriteCSV(w io.Writer, lines []Polyline) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"line", "x", "y"}); err != nil {
		return err
	}
	row := make([]string, 3)
	for n, l := range lines {
		row[0] = strconv.Itoa(n)
		pts := l.Points
		if l.Closed && len(pts) > 0 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		for _, p := range pts {
			row[1] = strconv.FormatFloat(p.X, 'f', -1, 64)
			row[2] = strconv.FormatFloat(p.Y, 'f', -1, 64)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
