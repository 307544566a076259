// SPDX-License-Identifier: MIT

// Package render draws rasters for visual QA: a hypsometric PNG with an
// optional shoreline overlay, and a coarse character preview for terminals.
package render

import (
	"bufio"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/katalvlaran/topomerge/coastline"
	"github.com/katalvlaran/topomerge/raster"
	"golang.org/x/image/draw"
)

var (
	// NoDataColor fills NoData and NaN cells.
	NoDataColor = color.NRGBA{128, 128, 128, 255}
	// DefaultShoreColor draws shoreline overlays.
	DefaultShoreColor = color.NRGBA{220, 30, 30, 255}

	deepSea    = color.NRGBA{8, 24, 88, 255}
	shallowSea = color.NRGBA{166, 206, 240, 255}
	lowland    = color.NRGBA{52, 140, 66, 255}
	upland     = color.NRGBA{150, 112, 62, 255}
	peak       = color.NRGBA{245, 245, 240, 255}
)

// Options tunes Image and PNG. The zero value renders one pixel per cell.
type Options struct {
	// Width is the output width in pixels; height follows the aspect ratio.
	// Zero keeps one pixel per cell.
	Width int
	// Smooth scales with Catmull-Rom instead of nearest neighbour.
	Smooth bool
	// Shoreline is drawn over the scaled image.
	Shoreline []coastline.Polyline
	// ShoreColor defaults to DefaultShoreColor.
	ShoreColor color.Color
}

// Ramp maps elevations to colours. Depths scale against Min, heights against Max.
type Ramp struct {
	Min, Max float64
}

// RampFor spans the valid values of r.
func RampFor(r *raster.Raster) Ramp {
	s := r.Stats()
	return Ramp{Min: math.Min(s.Min, 0), Max: math.Max(s.Max, 0)}
}

// Color returns the colour of elevation v. NaN yields NoDataColor.
func (p Ramp) Color(v float64) color.NRGBA {
	switch {
	case math.IsNaN(v):
		return NoDataColor
	case v < 0:
		if p.Min >= 0 {
			return shallowSea
		}
		return lerp(shallowSea, deepSea, math.Min(v/p.Min, 1))
	default:
		if p.Max <= 0 {
			return lowland
		}
		t := math.Min(v/p.Max, 1)
		if t < 0.5 {
			return lerp(lowland, upland, t*2)
		}
		return lerp(upland, peak, (t-0.5)*2)
	}
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + t*(float64(y)-float64(x)))) }
	return color.NRGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

// Image renders r with RampFor(r) and applies opts.
func Image(r *raster.Raster, opts Options) (*image.NRGBA, error) {
	if r == nil {
		return nil, raster.ErrNilRaster
	}
	rows, cols := r.Shape()
	ramp := RampFor(r)
	native := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := r.Value(i, j)
			if r.IsNoData(v) {
				v = math.NaN()
			}
			native.SetNRGBA(j, i, ramp.Color(v))
		}
	}

	img := native
	if opts.Width > 0 && opts.Width != cols {
		h := max(1, int(math.Round(float64(rows)*float64(opts.Width)/float64(cols))))
		img = image.NewNRGBA(image.Rect(0, 0, opts.Width, h))
		var scaler draw.Scaler = draw.NearestNeighbor
		if opts.Smooth {
			scaler = draw.CatmullRom
		}
		scaler.Scale(img, img.Bounds(), native, native.Bounds(), draw.Src, nil)
	}

	if len(opts.Shoreline) > 0 {
		c := opts.ShoreColor
		if c == nil {
			c = DefaultShoreColor
		}
		overlay(img, r.Header(), opts.Shoreline, c)
	}
	return img, nil
}

// PNG renders r and encodes it to w.
func PNG(w io.Writer, r *raster.Raster, opts Options) error {
	img, err := Image(r, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// overlay draws polylines given in geographic coordinates onto img, which
// covers the footprint of h.
func overlay(img *image.NRGBA, h raster.Header, lines []coastline.Polyline, c color.Color) {
	b := img.Bounds()
	sx := float64(b.Dx()) / (float64(h.Cols) * h.DX)
	sy := float64(b.Dy()) / (float64(h.Rows) * h.DY)
	top := h.YLL + float64(h.Rows)*h.DY
	px := func(p coastline.Point) (int, int) {
		return int(math.Floor((p.X - h.XLL) * sx)), int(math.Floor((top - p.Y) * sy))
	}

	for _, l := range lines {
		n := len(l.Points)
		if n == 0 {
			continue
		}
		x0, y0 := px(l.Points[0])
		img.Set(x0, y0, c)
		segs := n - 1
		if l.Closed {
			segs = n
		}
		for k := 1; k <= segs; k++ {
			x1, y1 := px(l.Points[k%n])
			line(img, x0, y0, x1, y1, c)
			x0, y0 = x1, y1
		}
	}
}

// line draws a Bresenham segment; pixels outside img are skipped by Set.
func line(img *image.NRGBA, x0, y0, x1, y1 int, c color.Color) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// asciiLand runs from sea level to the highest cell.
const asciiLand = ".:-=+*#%@"

// ASCII writes a character preview of r about width columns wide. Sea is
// '~', NoData '?', land shades through ".:-=+*#%@".
func ASCII(w io.Writer, r *raster.Raster, width int) error {
	if r == nil {
		return raster.ErrNilRaster
	}
	rows, cols := r.Shape()
	if width <= 0 || width > cols {
		width = cols
	}
	// Terminal cells are about twice as tall as wide.
	height := max(1, int(math.Round(float64(rows)*float64(width)/float64(cols)/2)))
	ramp := RampFor(r)

	bw := bufio.NewWriter(w)
	for y := 0; y < height; y++ {
		i := min(rows-1, int((float64(y)+0.5)*float64(rows)/float64(height)))
		for x := 0; x < width; x++ {
			j := min(cols-1, int((float64(x)+0.5)*float64(cols)/float64(width)))
			v := r.Value(i, j)
			switch {
			case math.IsNaN(v) || r.IsNoData(v):
				bw.WriteByte('?')
			case v < 0:
				bw.WriteByte('~')
			default:
				k := 0
				if ramp.Max > 0 {
					k = min(len(asciiLand)-1, int(v/ramp.Max*float64(len(asciiLand))))
				}
				bw.WriteByte(asciiLand[k])
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
