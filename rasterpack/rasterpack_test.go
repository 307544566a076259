package rasterpack_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/katalvlaran/topomerge/raster"
	"github.com/katalvlaran/topomerge/rasterpack"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// TestEncodeDecode verifies a lossless round trip including NaN cells and
// centre registration.
func TestEncodeDecode(t *testing.T) {
	h := raster.Header{Rows: 3, Cols: 2, XLL: 129.6, YLL: -4.6, DX: 1.0 / 1200, DY: 1.0 / 1200,
		NoData: -9999, Registration: raster.Center}
	src, err := raster.New(h, []float64{1, math.NaN(), -9999, 3.25, -4000, 1e-300})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rasterpack.Encode(&buf, src))

	got, err := rasterpack.Decode(&buf)
	require.NoError(t, err)
	assert.True(t, src.Equal(got))
	assert.Equal(t, raster.Center, got.Header().Registration)
}

// TestDecode_Errors covers version mismatch and garbage input.
func TestDecode_Errors(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, msgpack.NewEncoder(zw).Encode(map[string]any{"v": 99}))
	require.NoError(t, zw.Close())

	_, err = rasterpack.Decode(&buf)
	assert.ErrorIs(t, err, rasterpack.ErrVersion)

	buf.Reset()
	zw, err = zstd.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, msgpack.NewEncoder(zw).Encode(map[string]any{
		"v": 1, "rows": int64(1) << 62, "cols": 4, "dx": 1.0, "dy": 1.0, "data": []float64{1, 2},
	}))
	require.NoError(t, zw.Close())
	_, err = rasterpack.Decode(&buf)
	assert.ErrorIs(t, err, raster.ErrBadHeader)

	_, err = rasterpack.Decode(bytes.NewReader([]byte("not a checkpoint")))
	assert.Error(t, err)

	assert.ErrorIs(t, rasterpack.Encode(&buf, nil), raster.ErrNilRaster)
}
