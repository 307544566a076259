// SPDX-License-Identifier: MIT

package asciigrid

import (
	"bufio"
	"io"
	"math"
	"strconv"

	"github.com/katalvlaran/topomerge/raster"
)

// Style selects the header line layout.
type Style uint8

const (
	// StyleESRI writes "keyword value".
	StyleESRI Style = iota
	// StyleGeoClaw writes "value keyword" (topotype 3).
	StyleGeoClaw
)

func (s Style) String() string {
	if s == StyleGeoClaw {
		return "geoclaw"
	}
	return "esri"
}

// EncodeOptions tunes Encode. A nil *EncodeOptions writes ESRI style with the
// shortest exact representation of every value.
type EncodeOptions struct {
	Style Style

	// Precision is the number of digits after the decimal point. Zero uses
	// the shortest representation that round-trips.
	Precision int
}

// Encode writes r as a text raster. NaN cells are written as the NoData value.
func Encode(w io.Writer, r *raster.Raster, opts *EncodeOptions) error {
	if r == nil {
		return raster.ErrNilRaster
	}
	var o EncodeOptions
	if opts != nil {
		o = *opts
	}
	h := r.Header()
	bw := bufio.NewWriterSize(w, 1<<16)

	num := func(v float64) []byte {
		return strconv.AppendFloat(nil, v, 'g', -1, 64)
	}
	line := func(kw string, val []byte) {
		if o.Style == StyleGeoClaw {
			bw.Write(val)
			bw.WriteString("  ")
			bw.WriteString(kw)
		} else {
			bw.WriteString(kw)
			bw.WriteString("  ")
			bw.Write(val)
		}
		bw.WriteByte('\n')
	}

	xkw, ykw := "xllcorner", "yllcorner"
	x, y := h.XLL, h.YLL
	if h.Registration == raster.Center {
		xkw, ykw = "xllcenter", "yllcenter"
		x += h.DX / 2
		y += h.DY / 2
	}
	line("ncols", strconv.AppendInt(nil, int64(h.Cols), 10))
	line("nrows", strconv.AppendInt(nil, int64(h.Rows), 10))
	line(xkw, num(x))
	line(ykw, num(y))
	if h.DX == h.DY {
		line("cellsize", num(h.DX))
	} else {
		line("dx", num(h.DX))
		line("dy", num(h.DY))
	}
	line("nodata_value", num(h.NoData))

	buf := make([]byte, 0, 32)
	for i := 0; i < h.Rows; i++ {
		for j := 0; j < h.Cols; j++ {
			v := r.Value(i, j)
			if math.IsNaN(v) {
				v = h.NoData
			}
			if j > 0 {
				bw.WriteByte(' ')
			}
			if o.Precision <= 0 {
				buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
			} else {
				buf = strconv.AppendFloat(buf[:0], v, 'f', o.Precision, 64)
			}
			bw.Write(buf)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
