// SPDX-License-Identifier: MIT

package interp

import (
	"errors"
	"math"

	"github.com/fogleman/delaunay"
)

var (
	// ErrTooFewPoints indicates fewer than three samples.
	ErrTooFewPoints = errors.New("interp: need at least three points")

	// ErrCollinear indicates all samples lie on one line, so no triangle exists.
	ErrCollinear = errors.New("interp: points are collinear")

	// ErrValuesLength indicates len(values) != len(points).
	ErrValuesLength = errors.New("interp: values length mismatch")
)

// baryEps is the barycentric slack accepted on triangle edges.
const baryEps = 1e-9

// flatEps scales the squared extent into the smallest doubled area a kept
// triangle may have.
const flatEps = 1e-12

// Point is a sample position in the caller's coordinate system.
type Point struct {
	X, Y float64
}

// triangle holds vertex indices in counter-clockwise order.
type triangle struct {
	a, b, c int
}

// Triangulation is a Delaunay triangulation of scattered samples with linear
// interpolation over each triangle. Immutable after construction.
type Triangulation struct {
	pts  []Point
	vals []float64
	tris []triangle

	// bucket index over the hull bounding box
	minX, minY float64
	bw, bh     float64
	nx, ny     int
	buckets    [][]int32
}

// NewTriangulation triangulates points and attaches values.
// Duplicate points are ignored after their first occurrence.
// Returns ErrTooFewPoints, ErrValuesLength or ErrCollinear.
// Complexity: O(n log n) build.
func NewTriangulation(points []Point, values []float64) (*Triangulation, error) {
	n := len(points)
	if len(values) != n {
		return nil, ErrValuesLength
	}
	if n < 3 {
		return nil, ErrTooFewPoints
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	in := make([]delaunay.Point, n)
	for i, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		in[i] = delaunay.Point{X: p.X, Y: p.Y}
	}
	d := math.Max(maxX-minX, maxY-minY)
	if !(d > 0) {
		return nil, ErrCollinear
	}

	dt, err := delaunay.Triangulate(in)
	if err != nil {
		return nil, ErrCollinear
	}

	pts := make([]Point, n)
	copy(pts, points)
	flat := flatEps * d * d
	tris := make([]triangle, 0, len(dt.Triangles)/3)
	for k := 0; k+2 < len(dt.Triangles); k += 3 {
		t := triangle{dt.Triangles[k], dt.Triangles[k+1], dt.Triangles[k+2]}
		o := orient(pts[t.a], pts[t.b], pts[t.c])
		switch {
		case math.Abs(o) <= flat:
			continue
		case o < 0:
			t.b, t.c = t.c, t.b
		}
		tris = append(tris, t)
	}
	if len(tris) == 0 {
		return nil, ErrCollinear
	}

	vals := make([]float64, n)
	copy(vals, values)
	tr := &Triangulation{pts: pts, vals: vals, tris: tris}
	tr.buildIndex(minX, minY, maxX, maxY)
	return tr, nil
}

// orient is twice the signed area of abc; positive when counter-clockwise.
func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// buildIndex registers every triangle in the buckets its bounding box covers.
func (t *Triangulation) buildIndex(minX, minY, maxX, maxY float64) {
	side := int(math.Sqrt(float64(len(t.tris))/2)) + 1
	t.minX, t.minY = minX, minY
	t.nx, t.ny = side, side
	t.bw = math.Max((maxX-minX)/float64(side), math.SmallestNonzeroFloat64)
	t.bh = math.Max((maxY-minY)/float64(side), math.SmallestNonzeroFloat64)
	t.buckets = make([][]int32, side*side)

	for ti, tri := range t.tris {
		a, b, c := t.pts[tri.a], t.pts[tri.b], t.pts[tri.c]
		x0, y0 := t.bucket(math.Min(a.X, math.Min(b.X, c.X)), math.Min(a.Y, math.Min(b.Y, c.Y)))
		x1, y1 := t.bucket(math.Max(a.X, math.Max(b.X, c.X)), math.Max(a.Y, math.Max(b.Y, c.Y)))
		for by := y0; by <= y1; by++ {
			for bx := x0; bx <= x1; bx++ {
				k := by*t.nx + bx
				t.buckets[k] = append(t.buckets[k], int32(ti))
			}
		}
	}
}

func (t *Triangulation) bucket(x, y float64) (bx, by int) {
	bx = int((x - t.minX) / t.bw)
	by = int((y - t.minY) / t.bh)
	bx = max(0, min(bx, t.nx-1))
	by = max(0, min(by, t.ny-1))
	return bx, by
}

// Len returns the number of triangles.
func (t *Triangulation) Len() int { return len(t.tris) }

// Triangles returns the vertex indices of every triangle (counter-clockwise).
func (t *Triangulation) Triangles() [][3]int {
	out := make([][3]int, len(t.tris))
	for i, tri := range t.tris {
		out[i] = [3]int{tri.a, tri.b, tri.c}
	}
	return out
}

// At interpolates linearly at (x, y). NaN outside the convex hull.
func (t *Triangulation) At(x, y float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}
	// Reject points clearly outside the indexed box before clamping buckets.
	if x < t.minX-t.bw || y < t.minY-t.bh ||
		x > t.minX+float64(t.nx+1)*t.bw || y > t.minY+float64(t.ny+1)*t.bh {
		return math.NaN()
	}
	bx, by := t.bucket(x, y)
	for _, ti := range t.buckets[by*t.nx+bx] {
		tri := t.tris[ti]
		a, b, c := t.pts[tri.a], t.pts[tri.b], t.pts[tri.c]
		den := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
		l1 := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / den
		l2 := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / den
		l3 := 1 - l1 - l2
		if l1 < -baryEps || l2 < -baryEps || l3 < -baryEps {
			continue
		}
		return weighted(l1, t.vals[tri.a]) + weighted(l2, t.vals[tri.b]) + weighted(l3, t.vals[tri.c])
	}
	return math.NaN()
}

// weighted returns l·v, treating an exactly-zero weight as contributing
// nothing so finite results at nodes are exact.
func weighted(l, v float64) float64 {
	if l == 0 {
		return 0
	}
	return l * v
}
