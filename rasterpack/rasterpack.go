// SPDX-License-Identifier: MIT

// Package rasterpack is the binary checkpoint format for rasters: a msgpack
// record compressed with zstd (".rmp"). It is lossless, including NaN cells
// and centre registration, and is used to persist intermediate pipeline
// stages between runs.
package rasterpack

import (
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/topomerge/raster"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Ext is the conventional file suffix.
const Ext = ".rmp"

// version is bumped whenever record changes incompatibly.
const version = 1

// ErrVersion indicates a checkpoint written by an incompatible version.
var ErrVersion = errors.New("rasterpack: unsupported version")

type record struct {
	Version      int       `msgpack:"v"`
	Rows         int       `msgpack:"rows"`
	Cols         int       `msgpack:"cols"`
	XLL          float64   `msgpack:"xll"`
	YLL          float64   `msgpack:"yll"`
	DX           float64   `msgpack:"dx"`
	DY           float64   `msgpack:"dy"`
	NoData       float64   `msgpack:"nodata"`
	Registration uint8     `msgpack:"reg"`
	Data         []float64 `msgpack:"data"`
}

// Encode writes r to w.
func Encode(w io.Writer, r *raster.Raster) error {
	if r == nil {
		return raster.ErrNilRaster
	}
	h := r.Header()
	rec := record{
		Version:      version,
		Rows:         h.Rows,
		Cols:         h.Cols,
		XLL:          h.XLL,
		YLL:          h.YLL,
		DX:           h.DX,
		DY:           h.DY,
		NoData:       h.NoData,
		Registration: uint8(h.Registration),
		Data:         r.Values(),
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(&rec); err != nil {
		zw.Close()
		return fmt.Errorf("rasterpack: encode: %w", err)
	}
	return zw.Close()
}

// Decode reads a raster written by Encode.
// Returns ErrVersion, or raster validation errors for a corrupt record.
func Decode(rd io.Reader) (*raster.Raster, error) {
	zr, err := zstd.NewReader(rd, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var rec record
	if err := msgpack.NewDecoder(zr).Decode(&rec); err != nil {
		return nil, fmt.Errorf("rasterpack: decode: %w", err)
	}
	if rec.Version != version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	return raster.New(raster.Header{
		Rows:         rec.Rows,
		Cols:         rec.Cols,
		XLL:          rec.XLL,
		YLL:          rec.YLL,
		DX:           rec.DX,
		DY:           rec.DY,
		NoData:       rec.NoData,
		Registration: raster.Registration(rec.Registration),
	}, rec.Data)
}
