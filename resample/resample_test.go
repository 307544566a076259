package resample_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/topomerge/raster"
	"github.com/katalvlaran/topomerge/resample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid builds a 1-degree raster anchored at (100, -10) from rows.
func grid(t *testing.T, rows [][]float64) *raster.Raster {
	t.Helper()
	r, err := raster.FromRows(raster.Header{XLL: 100, YLL: -10, DX: 1, DY: 1, NoData: -9999}, rows)
	require.NoError(t, err)
	return r
}

// TestResample_Ramp2x2 checks the 2×2 → 3×3 refinement of [[0,0],[0,10]].
func TestResample_Ramp2x2(t *testing.T) {
	src := grid(t, [][]float64{{0, 0}, {0, 10}})

	out, err := resample.Resample(src, 3, 3)
	require.NoError(t, err)

	want := [][]float64{
		{0, 0, 0},
		{0, 5, 5},
		{0, 5, 10},
	}
	assert.Equal(t, want, out.Grid())

	// monotone non-decreasing along rows and columns
	g := out.Grid()
	for i := 0; i < 3; i++ {
		for j := 1; j < 3; j++ {
			assert.LessOrEqual(t, g[i][j-1], g[i][j])
			assert.LessOrEqual(t, g[j-1][i], g[j][i])
		}
	}
}

// TestResample_Header verifies outer centres stay fixed.
func TestResample_Header(t *testing.T) {
	src := grid(t, [][]float64{{0, 0}, {0, 10}})
	out, err := resample.Resample(src, 3, 3)
	require.NoError(t, err)

	h := out.Header()
	assert.Equal(t, 3, h.Rows)
	assert.Equal(t, 3, h.Cols)
	assert.InDelta(t, 0.5, h.DX, 1e-12)
	assert.InDelta(t, 0.5, h.DY, 1e-12)
	assert.Equal(t, src.Header().NoData, h.NoData)

	sx, sy := src.CellCenter(0, 0)
	ox, oy := out.CellCenter(0, 0)
	assert.InDelta(t, sx, ox, 1e-12)
	assert.InDelta(t, sy, oy, 1e-12)

	sx, sy = src.CellCenter(1, 1)
	ox, oy = out.CellCenter(2, 2)
	assert.InDelta(t, sx, ox, 1e-12)
	assert.InDelta(t, sy, oy, 1e-12)
}

// TestResample_NodeExactness verifies source nodes survive refinement.
func TestResample_NodeExactness(t *testing.T) {
	src := grid(t, [][]float64{
		{3.25, -7, 11},
		{0.1, 42, -3.5},
		{8, 8, 1e3},
	})

	same, err := resample.Resample(src, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, src.Grid(), same.Grid(), "identity refinement")

	// 3 → 5 places every source node on an even query index.
	out, err := resample.Resample(src, 5, 5)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, src.Value(i, j), out.Value(2*i, 2*j), "node (%d,%d)", i, j)
		}
	}

	// Corners are exact for any shape.
	odd, err := resample.Resample(src, 7, 4)
	require.NoError(t, err)
	assert.Equal(t, src.Value(0, 0), odd.Value(0, 0))
	assert.Equal(t, src.Value(0, 2), odd.Value(0, 3))
	assert.Equal(t, src.Value(2, 0), odd.Value(6, 0))
	assert.Equal(t, src.Value(2, 2), odd.Value(6, 3))
}

// TestResample_Shape verifies output dimensions and downsampling rejection.
func TestResample_Shape(t *testing.T) {
	src := grid(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	out, err := resample.Resample(src, 8, 9)
	require.NoError(t, err)
	rows, cols := out.Shape()
	assert.Equal(t, 8, rows)
	assert.Equal(t, 9, cols)
	assert.Len(t, out.Values(), 72)

	_, err = resample.Resample(src, 1, 9)
	assert.ErrorIs(t, err, resample.ErrInvalidResolution)
	_, err = resample.Resample(src, 8, 2)
	assert.ErrorIs(t, err, resample.ErrInvalidResolution)
	_, err = resample.Resample(nil, 8, 8)
	assert.ErrorIs(t, err, raster.ErrNilRaster)
}

// TestResample_DoesNotMutate verifies the input is left untouched.
func TestResample_DoesNotMutate(t *testing.T) {
	src := grid(t, [][]float64{{1, 2}, {3, 4}})
	before := src.Clone()
	_, err := resample.Resample(src, 4, 4)
	require.NoError(t, err)
	assert.True(t, before.Equal(src))
}

// TestScaleFactor covers valid and invalid resolution pairs.
func TestScaleFactor(t *testing.T) {
	cases := []struct {
		name        string
		resIn, out  float64
		want        int
		expectError bool
	}{
		{"Etopo60To3", 60, 3, 20, false},
		{"Equal", 3, 3, 1, false},
		{"Floored", 60, 7, 8, false},
		{"Upsidedown", 3, 60, 0, true},
		{"Zero", 0, 3, 0, true},
		{"Negative", 60, -3, 0, true},
		{"Fractional", 2.5, 1, 0, true},
		{"NaN", math.NaN(), 1, 0, true},
		{"Inf", math.Inf(1), 1, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k, err := resample.ScaleFactor(tc.resIn, tc.out)
			if tc.expectError {
				assert.ErrorIs(t, err, resample.ErrInvalidResolution)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, k)
		})
	}
}

// TestByResolution verifies the output is scaled by the integer factor.
func TestByResolution(t *testing.T) {
	src := grid(t, [][]float64{{1, 2}, {3, 4}})

	out, err := resample.ByResolution(src, 60, 20)
	require.NoError(t, err)
	rows, cols := out.Shape()
	assert.Equal(t, 6, rows)
	assert.Equal(t, 6, cols)

	_, err = resample.ByResolution(src, 3, 60)
	assert.ErrorIs(t, err, resample.ErrInvalidResolution)
}

// TestResample_Guard verifies the cell cap and byte budget.
func TestResample_Guard(t *testing.T) {
	src := grid(t, [][]float64{{1, 2}, {3, 4}})

	_, err := resample.Resample(src, 100, 100, resample.WithMaxCells(9999))
	assert.ErrorIs(t, err, resample.ErrTooLarge)

	_, err = resample.Resample(src, 100, 100, resample.WithMemoryBudget(8*100*100-1))
	assert.ErrorIs(t, err, resample.ErrTooLarge)

	_, err = resample.Resample(src, 100, 100,
		resample.WithMaxCells(10000), resample.WithMemoryBudget(8*100*100), resample.WithoutHostMemoryCheck())
	assert.NoError(t, err)

	assert.Panics(t, func() { resample.WithMaxCells(0) })
}

// TestResample_SkipNoData verifies NoData samples are dropped rather than
// blended into their neighbours.
func TestResample_SkipNoData(t *testing.T) {
	src := grid(t, [][]float64{
		{0, 1, 2},
		{1, -9999, 3},
		{2, 3, 4},
	})

	blended, err := resample.Resample(src, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, -9999.0, blended.Value(1, 1))

	skipped, err := resample.Resample(src, 5, 5, resample.WithSkipNoData())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, skipped.Value(2, 2), 1e-9, "planar fill of the hole")
	assert.InDelta(t, 1.0, skipped.Value(1, 1), 1e-9)
	assert.Equal(t, 4.0, skipped.Value(4, 4))

	// Without NoData the option falls back to the lattice.
	clean := grid(t, [][]float64{{1, 2}, {3, 4}})
	a, err := resample.Resample(clean, 3, 3, resample.WithSkipNoData())
	require.NoError(t, err)
	b, err := resample.Resample(clean, 3, 3)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

// TestResample_SkipNoDataLarge verifies a bathymetry-sized crop with a single
// hole takes the scattered path without hitting a size limit.
func TestResample_SkipNoDataLarge(t *testing.T) {
	const side = 150
	h := raster.Header{Rows: side, Cols: side, XLL: 140, YLL: 35, DX: 1.0 / 60, DY: 1.0 / 60, NoData: -9999}
	src, err := raster.Generate(h, func(i, j int) float64 {
		if i == 70 && j == 90 {
			return -9999
		}
		return -100 - 2*float64(i) + 0.5*float64(j)
	})
	require.NoError(t, err)

	out, err := resample.Resample(src, side, side, resample.WithSkipNoData())
	require.NoError(t, err)
	assert.InDelta(t, -100-2*70+0.5*90, out.Value(70, 90), 1e-9, "hole filled from neighbours")
	assert.Equal(t, src.Value(0, 0), out.Value(0, 0))
	assert.Equal(t, src.Value(side-1, side-1), out.Value(side-1, side-1))
}

// TestOnto_CoRegistered verifies the result carries the target geometry and
// reproduces a planar field.
func TestOnto_CoRegistered(t *testing.T) {
	plane := func(x, y float64) float64 { return 2*x - y }
	h := raster.Header{Rows: 3, Cols: 4, XLL: 0, YLL: 0, DX: 1, DY: 1, NoData: -9999}
	src, err := raster.Generate(h, func(i, j int) float64 { return plane(h.CellCenter(i, j)) })
	require.NoError(t, err)

	target := raster.Header{Rows: 12, Cols: 16, XLL: 0, YLL: 0, DX: 0.25, DY: 0.25, NoData: -1}
	out, err := resample.Onto(src, target)
	require.NoError(t, err)

	want := target
	want.NoData = h.NoData
	assert.Equal(t, want, out.Header())
	require.NoError(t, raster.ValidateAligned(out.Header(), target, raster.DefaultAlignTolerance))

	for i := 0; i < target.Rows; i++ {
		for j := 0; j < target.Cols; j++ {
			x, y := target.CellCenter(i, j)
			if x < 0.5 || x > 3.5 || y < 0.5 || y > 2.5 {
				assert.False(t, math.IsNaN(out.Value(i, j)), "clamped edge (%d,%d)", i, j)
				continue
			}
			assert.InDelta(t, plane(x, y), out.Value(i, j), 1e-9, "(%d,%d)", i, j)
		}
	}

	// The rim takes the nearest edge value rather than the planar one.
	x, y := target.CellCenter(0, 0)
	assert.InDelta(t, plane(0.5, 2.5), out.Value(0, 0), 1e-9)
	assert.NotEqual(t, plane(x, y), out.Value(0, 0))
}

// TestOnto_Errors covers coarser targets and queries outside the footprint.
func TestOnto_Errors(t *testing.T) {
	src := grid(t, [][]float64{{1, 2}, {3, 4}})

	coarse := src.Header()
	coarse.DX, coarse.DY = 2, 2
	_, err := resample.Onto(src, coarse)
	assert.ErrorIs(t, err, resample.ErrInvalidResolution)

	_, err = resample.Onto(nil, coarse)
	assert.ErrorIs(t, err, raster.ErrNilRaster)

	bad := src.Header()
	bad.Rows = 0
	_, err = resample.Onto(src, bad)
	assert.ErrorIs(t, err, raster.ErrBadHeader)

	shifted := raster.Header{Rows: 2, Cols: 4, XLL: 101, YLL: -10, DX: 0.5, DY: 1}
	out, err := resample.Onto(src, shifted)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(out.Value(0, 0)))
	assert.True(t, math.IsNaN(out.Value(0, 3)), "x=102.75 lies outside the source footprint")
}
