package render_test

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/katalvlaran/topomerge/coastline"
	"github.com/katalvlaran/topomerge/raster"
	"github.com/katalvlaran/topomerge/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tile(t *testing.T, rows [][]float64) *raster.Raster {
	t.Helper()
	r, err := raster.FromRows(raster.Header{XLL: 128, YLL: -4, DX: 0.5, DY: 0.5, NoData: -9999}, rows)
	require.NoError(t, err)
	return r
}

// TestImage_Ramp verifies the colour of each elevation class.
func TestImage_Ramp(t *testing.T) {
	r := tile(t, [][]float64{{-100, 0}, {100, -9999}})

	img, err := render.Image(r, render.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	ramp := render.RampFor(r)
	assert.Equal(t, ramp.Color(-100), img.NRGBAAt(0, 0))
	assert.Equal(t, ramp.Color(0), img.NRGBAAt(1, 0))
	assert.Equal(t, ramp.Color(100), img.NRGBAAt(0, 1))
	assert.Equal(t, render.NoDataColor, img.NRGBAAt(1, 1))

	assert.NotEqual(t, ramp.Color(-100), ramp.Color(-1), "depth is shaded")
	assert.NotEqual(t, ramp.Color(1), ramp.Color(99), "height is shaded")
}

// TestImage_ScaledWithShoreline verifies scaling and the overlay.
func TestImage_ScaledWithShoreline(t *testing.T) {
	r := tile(t, [][]float64{
		{-50, -50, -50, -50},
		{-50, 20, 30, -50},
		{-50, 25, 40, -50},
		{-50, -50, -50, -50},
	})
	g, err := coastline.NewGrid(r, coastline.DefaultOptions())
	require.NoError(t, err)

	img, err := render.Image(r, render.Options{Width: 40, Shoreline: g.Shoreline()})
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())

	shore := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if img.NRGBAAt(x, y) == render.DefaultShoreColor {
				shore++
			}
		}
	}
	assert.Greater(t, shore, 20, "ring drawn around the island")
	assert.Equal(t, render.RampFor(r).Color(-50), img.NRGBAAt(0, 0), "corner untouched by overlay")
}

// TestPNG verifies the encoded image decodes with the requested size.
func TestPNG(t *testing.T) {
	r := tile(t, [][]float64{{-1, 1, 2}, {3, -9999, -4}})
	var buf bytes.Buffer
	require.NoError(t, render.PNG(&buf, r, render.Options{Width: 9, Smooth: true, ShoreColor: color.White}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 9, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())

	assert.ErrorIs(t, render.PNG(&buf, nil, render.Options{}), raster.ErrNilRaster)
}

// TestASCII checks the character classes.
func TestASCII(t *testing.T) {
	r := tile(t, [][]float64{
		{50, 50, 50, 50},
		{-1, 0, 100, -9999},
	})
	var buf bytes.Buffer
	require.NoError(t, render.ASCII(&buf, r, 4))
	assert.Equal(t, "~.@?\n", buf.String())

	buf.Reset()
	require.NoError(t, render.ASCII(&buf, r, 0))
	assert.Equal(t, "~.@?\n", buf.String(), "non-positive width keeps native columns")
}
