// SPDX-License-Identifier: MIT

package raster

import (
	"fmt"
	"strings"
)

// rasterErrorf wraps an underlying error with Raster method context.
func rasterErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Raster.%s(%d,%d): %w", method, row, col, err)
}

// New builds a Raster from a header and a row-major data slice.
// The slice is copied; the caller keeps ownership of its argument.
// Returns ErrBadHeader or ErrDataLength.
// Complexity: O(Rows·Cols).
func New(h Header, data []float64) (*Raster, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if len(data) != h.Cells() {
		return nil, fmt.Errorf("%w: got %d values, header wants %dx%d",
			ErrDataLength, len(data), h.Rows, h.Cols)
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return &Raster{hdr: h, data: buf}, nil
}

// Generate builds a Raster by evaluating fn at every cell in row-major order.
// The backing slice is allocated once from the header dimensions.
func Generate(h Header, fn func(i, j int) float64) (*Raster, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	buf := make([]float64, h.Cells())
	for i := 0; i < h.Rows; i++ {
		row := buf[i*h.Cols : (i+1)*h.Cols]
		for j := range row {
			row[j] = fn(i, j)
		}
	}
	return &Raster{hdr: h, data: buf}, nil
}

// FromRows builds a Raster from a rectangular 2D slice (row 0 north).
// h.Rows and h.Cols are overwritten by the slice dimensions.
// Returns ErrEmptyGrid or ErrNonRectangular on malformed input.
func FromRows(h Header, rows [][]float64) (*Raster, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	w := len(rows[0])
	for _, row := range rows {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}
	h.Rows, h.Cols = len(rows), w
	return Generate(h, func(i, j int) float64 { return rows[i][j] })
}

// Header returns the raster header by value.
func (r *Raster) Header() Header {
	return r.hdr
}

// Rows returns the number of rows.
func (r *Raster) Rows() int {
	return r.hdr.Rows
}

// Cols returns the number of columns.
func (r *Raster) Cols() int {
	return r.hdr.Cols
}

// Shape returns (Rows, Cols).
func (r *Raster) Shape() (rows, cols int) {
	return r.hdr.Rows, r.hdr.Cols
}

// Extent returns the footprint of the grid.
func (r *Raster) Extent() BoundingBox {
	return r.hdr.Extent()
}

// InBounds reports whether (i, j) lies within the grid.
func (r *Raster) InBounds(i, j int) bool {
	return i >= 0 && i < r.hdr.Rows && j >= 0 && j < r.hdr.Cols
}

// At returns the value of cell (i, j) or ErrOutOfRange.
func (r *Raster) At(i, j int) (float64, error) {
	if !r.InBounds(i, j) {
		return 0, rasterErrorf("At", i, j, ErrOutOfRange)
	}
	return r.data[i*r.hdr.Cols+j], nil
}

// Value returns the value of cell (i, j) without a bounds check beyond the
// one the slice performs. Use it in hot loops that already iterate the shape.
func (r *Raster) Value(i, j int) float64 {
	return r.data[i*r.hdr.Cols+j]
}

// Index maps (i, j) to its row-major offset.
func (r *Raster) Index(i, j int) int {
	return i*r.hdr.Cols + j
}

// Coordinate converts a row-major offset back to (i, j).
func (r *Raster) Coordinate(idx int) (i, j int) {
	return idx / r.hdr.Cols, idx % r.hdr.Cols
}

// CellCenter returns the geographic centre of cell (i, j).
func (r *Raster) CellCenter(i, j int) (x, y float64) {
	return r.hdr.CellCenter(i, j)
}

// IsNoData reports whether v is this raster's NoData sentinel.
func (r *Raster) IsNoData(v float64) bool {
	return r.hdr.IsNoData(v)
}

// Values returns a copy of the row-major grid.
func (r *Raster) Values() []float64 {
	out := make([]float64, len(r.data))
	copy(out, r.data)
	return out
}

// Row returns a copy of row i, or nil when i is out of range.
func (r *Raster) Row(i int) []float64 {
	if i < 0 || i >= r.hdr.Rows {
		return nil
	}
	out := make([]float64, r.hdr.Cols)
	copy(out, r.data[i*r.hdr.Cols:(i+1)*r.hdr.Cols])
	return out
}

// Grid returns a copy of the grid as a [][]float64 (row 0 north).
func (r *Raster) Grid() [][]float64 {
	out := make([][]float64, r.hdr.Rows)
	for i := range out {
		out[i] = r.Row(i)
	}
	return out
}

// Map returns a new Raster with fn applied to every cell. The header is kept.
func (r *Raster) Map(fn func(i, j int, v float64) float64) *Raster {
	buf := make([]float64, len(r.data))
	cols := r.hdr.Cols
	for idx, v := range r.data {
		buf[idx] = fn(idx/cols, idx%cols, v)
	}
	return &Raster{hdr: r.hdr, data: buf}
}

// WithHeader returns a copy of r carrying h. h must have the same shape.
func (r *Raster) WithHeader(h Header) (*Raster, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if h.Rows != r.hdr.Rows || h.Cols != r.hdr.Cols {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, h.Rows, h.Cols, r.hdr.Rows, r.hdr.Cols)
	}
	return New(h, r.data)
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	buf := make([]float64, len(r.data))
	copy(buf, r.data)
	return &Raster{hdr: r.hdr, data: buf}
}

// Equal reports exact equality of headers and grids. NaN cells compare equal
// to NaN cells.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.hdr != o.hdr && !sameHeaderNaN(r.hdr, o.hdr) {
		return false
	}
	for i, v := range r.data {
		w := o.data[i]
		if v != w && !(v != v && w != w) {
			return false
		}
	}
	return true
}

// sameHeaderNaN treats two NaN sentinels as equal.
func sameHeaderNaN(a, b Header) bool {
	if a.NoData == a.NoData || b.NoData == b.NoData {
		return false
	}
	a.NoData, b.NoData = 0, 0
	return a == b
}

// String implements fmt.Stringer for small rasters in tests and logs.
func (r *Raster) String() string {
	var sb strings.Builder
	sb.WriteString(r.hdr.String())
	sb.WriteByte('\n')
	for i := 0; i < r.hdr.Rows; i++ {
		sb.WriteByte('[')
		for j := 0; j < r.hdr.Cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", r.data[i*r.hdr.Cols+j])
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
