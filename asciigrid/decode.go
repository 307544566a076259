// SPDX-License-Identifier: MIT

package asciigrid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/topomerge/raster"
)

// maxLine bounds a single text line; wide rasters put a whole row on one line.
const maxLine = 64 << 20

// maxPrealloc bounds the values reserved up front, so a header that declares
// more cells than the file holds fails with ErrDataCount instead of
// allocating for them.
const maxPrealloc = 1 << 22

type headerField uint8

const (
	fieldCols headerField = 1 << iota
	fieldRows
	fieldX
	fieldY
	fieldCellSize
	fieldDX
	fieldDY
	fieldNoData
)

var keywords = map[string]headerField{
	"ncols":        fieldCols,
	"nrows":        fieldRows,
	"xllcorner":    fieldX,
	"xllcenter":    fieldX,
	"xllcentre":    fieldX,
	"yllcorner":    fieldY,
	"yllcenter":    fieldY,
	"yllcentre":    fieldY,
	"cellsize":     fieldCellSize,
	"dx":           fieldDX,
	"dy":           fieldDY,
	"nodata_value": fieldNoData,
	"nodata":       fieldNoData,
}

// header accumulates parsed header lines before they become a raster.Header.
type header struct {
	seen       headerField
	cols, rows int
	x, y       float64
	xCenter    bool
	yCenter    bool
	cellSize   float64
	dx, dy     float64
	nodata     float64
	style      Style
}

// Decode reads a text raster from rd.
// Returns ErrBadHeader, ErrBadValue, ErrDataCount or raster.ErrBadHeader.
func Decode(rd io.Reader) (*raster.Raster, error) {
	r, _, err := DecodeStyle(rd)
	return r, err
}

// DecodeStyle is Decode that also reports which header layout the file used.
func DecodeStyle(rd io.Reader) (*raster.Raster, Style, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)

	var (
		h     = header{nodata: raster.DefaultNoData}
		first string
		line  int
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		done, err := h.parseLine(text, line)
		if err != nil {
			return nil, 0, err
		}
		if done {
			first = text
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("asciigrid: read header: %w", err)
	}

	hdr, err := h.build()
	if err != nil {
		return nil, 0, err
	}

	want := hdr.Cells()
	data := make([]float64, 0, min(want, maxPrealloc))
	appendTokens := func(text string, line int) error {
		for _, tok := range strings.Fields(text) {
			if len(data) == want {
				return fmt.Errorf("%w: more than %d values (line %d)", ErrDataCount, want, line)
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return fmt.Errorf("%w: %q on line %d", ErrBadValue, tok, line)
			}
			data = append(data, v)
		}
		return nil
	}
	if first != "" {
		if err := appendTokens(first, line); err != nil {
			return nil, 0, err
		}
	}
	for sc.Scan() {
		line++
		if err := appendTokens(sc.Text(), line); err != nil {
			return nil, 0, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("asciigrid: read data: %w", err)
	}
	if len(data) != want {
		return nil, 0, fmt.Errorf("%w: got %d, want %dx%d=%d", ErrDataCount, len(data), hdr.Rows, hdr.Cols, want)
	}

	r, err := raster.New(hdr, data)
	if err != nil {
		return nil, 0, err
	}
	return r, h.style, nil
}

// parseLine consumes one header line. done reports that text is not a header
// line and therefore starts the data block.
func (h *header) parseLine(text string, line int) (done bool, err error) {
	f := strings.Fields(text)
	if len(f) != 2 {
		return true, nil
	}
	kw, val := strings.ToLower(f[0]), f[1]
	style := StyleESRI
	field, ok := keywords[kw]
	if !ok {
		kw, val = strings.ToLower(f[1]), f[0]
		style = StyleGeoClaw
		if field, ok = keywords[kw]; !ok {
			return true, nil
		}
	}
	if h.seen == 0 {
		h.style = style
	}
	if h.seen&field != 0 {
		return false, fmt.Errorf("%w: duplicate %q on line %d", ErrBadHeader, kw, line)
	}
	h.seen |= field

	switch field {
	case fieldCols, fieldRows:
		n, err := strconv.Atoi(val)
		if err != nil {
			// Some writers emit counts as floats ("1200.0").
			fv, ferr := strconv.ParseFloat(val, 64)
			if ferr != nil || fv != float64(int(fv)) {
				return false, fmt.Errorf("%w: %s=%q on line %d", ErrBadHeader, kw, val, line)
			}
			n = int(fv)
		}
		if field == fieldCols {
			h.cols = n
		} else {
			h.rows = n
		}
		return false, nil
	}

	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q on line %d", ErrBadHeader, kw, val, line)
	}
	switch field {
	case fieldX:
		h.x, h.xCenter = v, strings.HasPrefix(kw, "xllcent")
	case fieldY:
		h.y, h.yCenter = v, strings.HasPrefix(kw, "yllcent")
	case fieldCellSize:
		h.cellSize = v
	case fieldDX:
		h.dx = v
	case fieldDY:
		h.dy = v
	case fieldNoData:
		h.nodata = v
	}
	return false, nil
}

// build checks required fields and converts centre registration to corners.
func (h *header) build() (raster.Header, error) {
	required := fieldCols | fieldRows | fieldX | fieldY
	if h.seen&required != required {
		return raster.Header{}, fmt.Errorf("%w: need ncols, nrows, xll*, yll*", ErrBadHeader)
	}
	dx, dy := h.cellSize, h.cellSize
	switch {
	case h.seen&fieldCellSize != 0 && h.seen&(fieldDX|fieldDY) != 0:
		return raster.Header{}, fmt.Errorf("%w: both cellsize and dx/dy", ErrBadHeader)
	case h.seen&fieldCellSize == 0:
		if h.seen&(fieldDX|fieldDY) != fieldDX|fieldDY {
			return raster.Header{}, fmt.Errorf("%w: need cellsize or dx and dy", ErrBadHeader)
		}
		dx, dy = h.dx, h.dy
	}
	if h.xCenter != h.yCenter {
		return raster.Header{}, fmt.Errorf("%w: mixed corner and centre registration", ErrBadHeader)
	}

	out := raster.Header{
		Cols:   h.cols,
		Rows:   h.rows,
		XLL:    h.x,
		YLL:    h.y,
		DX:     dx,
		DY:     dy,
		NoData: h.nodata,
	}
	if h.xCenter {
		out.Registration = raster.Center
		out.XLL -= dx / 2
		out.YLL -= dy / 2
	}
	if err := out.Validate(); err != nil {
		return raster.Header{}, err
	}
	return out, nil
}
