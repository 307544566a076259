package interp_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/topomerge/interp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scattered returns the corners of [0,10]² plus n jittered interior points.
func scattered(n int, seed int64, f func(x, y float64) float64) ([]interp.Point, []float64) {
	rng := rand.New(rand.NewSource(seed))
	pts := []interp.Point{{0, 0}, {10, 0}, {0, 10}, {10, 10}}
	for i := 0; i < n; i++ {
		pts = append(pts, interp.Point{X: 2 + 6*rng.Float64(), Y: 2 + 6*rng.Float64()})
	}
	vals := make([]float64, len(pts))
	for i, p := range pts {
		vals[i] = f(p.X, p.Y)
	}
	return pts, vals
}

// TestNewTriangulation_Errors verifies input validation.
func TestNewTriangulation_Errors(t *testing.T) {
	_, err := interp.NewTriangulation([]interp.Point{{0, 0}, {1, 1}}, []float64{1, 2})
	require.ErrorIs(t, err, interp.ErrTooFewPoints)

	_, err = interp.NewTriangulation([]interp.Point{{0, 0}, {1, 0}, {0, 1}}, []float64{1})
	require.ErrorIs(t, err, interp.ErrValuesLength)

	line := []interp.Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	_, err = interp.NewTriangulation(line, make([]float64, len(line)))
	require.ErrorIs(t, err, interp.ErrCollinear)

	same := []interp.Point{{1, 1}, {1, 1}, {1, 1}}
	_, err = interp.NewTriangulation(same, make([]float64, 3))
	require.ErrorIs(t, err, interp.ErrCollinear)
}

// TestTriangulation_SingleTriangle checks barycentric weights on one triangle.
func TestTriangulation_SingleTriangle(t *testing.T) {
	tr, err := interp.NewTriangulation(
		[]interp.Point{{0, 0}, {2, 0}, {0, 2}},
		[]float64{0, 4, 8},
	)
	require.NoError(t, err)
	require.Equal(t, 1, tr.Len())

	assert.InDelta(t, 2.0, tr.At(1, 0), 1e-12)
	assert.InDelta(t, 4.0, tr.At(0, 1), 1e-12)
	assert.InDelta(t, 3.0, tr.At(0.5, 0.5), 1e-12)
	assert.True(t, math.IsNaN(tr.At(1.5, 1.5)), "outside the hull")
}

// TestTriangulation_Plane verifies a planar field is reproduced inside the hull
// and the samples are returned exactly at their nodes.
func TestTriangulation_Plane(t *testing.T) {
	plane := func(x, y float64) float64 { return 2*x + 3*y - 7 }
	pts, vals := scattered(200, 42, plane)

	tr, err := interp.NewTriangulation(pts, vals)
	require.NoError(t, err)
	assert.Greater(t, tr.Len(), len(pts))

	for i, p := range pts {
		assert.Equal(t, vals[i], tr.At(p.X, p.Y), "node %d", i)
	}
	for x := 0.5; x < 10; x += 0.7 {
		for y := 0.5; y < 10; y += 0.9 {
			assert.InDelta(t, plane(x, y), tr.At(x, y), 1e-9, "(%g,%g)", x, y)
		}
	}
}

// TestTriangulation_Outside verifies NaN beyond the convex hull.
func TestTriangulation_Outside(t *testing.T) {
	pts, vals := scattered(20, 7, func(x, y float64) float64 { return x })
	tr, err := interp.NewTriangulation(pts, vals)
	require.NoError(t, err)

	for _, q := range [][2]float64{{-1, 5}, {11, 5}, {5, -0.5}, {5, 10.5}, {100, 100}, {math.NaN(), 1}} {
		assert.True(t, math.IsNaN(tr.At(q[0], q[1])), "At(%g,%g)", q[0], q[1])
	}
}

// TestTriangulation_Lattice verifies cocircular lattice input triangulates
// the full square without slivers.
func TestTriangulation_Lattice(t *testing.T) {
	var pts []interp.Point
	var vals []float64
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			pts = append(pts, interp.Point{X: float64(x), Y: float64(y)})
			vals = append(vals, float64(x+10*y))
		}
	}
	tr, err := interp.NewTriangulation(pts, vals)
	require.NoError(t, err)
	assert.LessOrEqual(t, tr.Len(), 2*4*3)
	assert.InDelta(t, 22.5, tr.At(2.5, 2), 1e-9)

	for x := 0.0; x <= 4; x += 0.25 {
		for y := 0.0; y <= 3; y += 0.25 {
			assert.InDelta(t, x+10*y, tr.At(x, y), 1e-9, "(%g,%g)", x, y)
		}
	}
}

// TestTriangulation_LargeLattice verifies tens of thousands of samples with a
// hole build without a size limit and fill the hole linearly.
func TestTriangulation_LargeLattice(t *testing.T) {
	const side = 160
	plane := func(x, y float64) float64 { return 0.5*x - 2*y + 3 }
	pts := make([]interp.Point, 0, side*side)
	vals := make([]float64, 0, side*side)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if x == 80 && y == 80 {
				continue
			}
			pts = append(pts, interp.Point{X: float64(x), Y: float64(y)})
			vals = append(vals, plane(float64(x), float64(y)))
		}
	}
	tr, err := interp.NewTriangulation(pts, vals)
	require.NoError(t, err)
	assert.InDelta(t, plane(80, 80), tr.At(80, 80), 1e-9)
	assert.InDelta(t, plane(0.5, 158.5), tr.At(0.5, 158.5), 1e-9)
	assert.True(t, math.IsNaN(tr.At(-0.5, 3)))
}

// TestTriangulation_Duplicates verifies repeated points are tolerated.
func TestTriangulation_Duplicates(t *testing.T) {
	pts := []interp.Point{{0, 0}, {1, 0}, {0, 1}, {1, 0}, {1, 1}}
	tr, err := interp.NewTriangulation(pts, []float64{0, 1, 1, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Len())
	assert.InDelta(t, 1.0, tr.At(0.5, 0.5), 1e-12)
}
