package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/topomerge/raster"
	"github.com/katalvlaran/topomerge/rasterio"
)

func testEnv(t *testing.T) (*env, *bytes.Buffer) {
	t.Helper()
	t.Setenv("TOPOMERGE_LOG_LEVEL", "error")
	t.Setenv("TOPOMERGE_LOG_DIR", t.TempDir())
	var out bytes.Buffer
	e, err := newEnv("", &out)
	require.NoError(t, err)
	t.Cleanup(func() { e.store.Close() })
	return e, &out
}

func writeRaster(t *testing.T, path string, h raster.Header, fn func(i, j int) float64) {
	t.Helper()
	r, err := raster.Generate(h, fn)
	require.NoError(t, err)
	require.NoError(t, rasterio.Save(context.Background(), path, r))
}

// TestParseBox verifies region parsing, with or without brackets.
func TestParseBox(t *testing.T) {
	b, err := parseBox("[140, 141.15, 35, 38.1]")
	require.NoError(t, err)
	assert.Equal(t, raster.BoundingBox{XMin: 140, XMax: 141.15, YMin: 35, YMax: 38.1}, b)

	for _, bad := range []string{"1,2,3", "a,b,c,d", "2,1,0,1"} {
		_, err := parseBox(bad)
		assert.ErrorIs(t, err, raster.ErrBadBox, bad)
	}
}

// TestCmdCrop verifies the crop command end to end.
func TestCmdCrop(t *testing.T) {
	e, _ := testEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.asc")
	out := filepath.Join(dir, "out.asc")
	writeRaster(t, in, raster.Header{Rows: 4, Cols: 4, DX: 1, DY: 1, NoData: -9999},
		func(i, j int) float64 { return float64(10*i + j) })

	err := cmdCrop(context.Background(), e, []string{"-in", in, "-out", out, "-region", "0,2,0,2"})
	require.NoError(t, err)

	r, err := rasterio.Load(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{20, 21}, {30, 31}}, r.Grid())

	err = cmdCrop(context.Background(), e, []string{"-in", in, "-out", out, "-region", "0,2,0,2"})
	assert.ErrorIs(t, err, rasterio.ErrDestinationExists)

	err = cmdCrop(context.Background(), e, []string{"-in", in, "-out", out + "2"})
	assert.Error(t, err)
}

// TestCmdMaskAndMerge verifies that mask and merge compose like the pipeline.
func TestCmdMaskAndMerge(t *testing.T) {
	e, _ := testEnv(t)
	dir := t.TempDir()
	h := raster.Header{Rows: 2, Cols: 2, DX: 1, DY: 1, NoData: -9999}
	topo := filepath.Join(dir, "topo.asc")
	bathy := filepath.Join(dir, "bathy.asc")
	writeRaster(t, topo, h, func(i, j int) float64 {
		if i == j {
			return -9999
		}
		return 3
	})
	writeRaster(t, bathy, h, func(i, j int) float64 { return float64(i*2+j) - 1 })

	masked := filepath.Join(dir, "masked.asc")
	merged := filepath.Join(dir, "merged.asc")
	ctx := context.Background()
	require.NoError(t, cmdMask(ctx, e, []string{"-in", bathy, "-out", masked}))
	require.NoError(t, cmdMerge(ctx, e, []string{"-primary", topo, "-secondary", masked, "-out", merged}))

	r, err := rasterio.Load(ctx, merged)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-1, 3}, {3, -2}}, r.Grid())
}

// TestCmdInspect verifies the plain and dump outputs.
func TestCmdInspect(t *testing.T) {
	e, out := testEnv(t)
	in := filepath.Join(t.TempDir(), "in.asc")
	writeRaster(t, in, raster.Header{Rows: 2, Cols: 3, DX: 1, DY: 1, NoData: -9999},
		func(i, j int) float64 { return float64(j - 1) })

	require.NoError(t, cmdInspect(context.Background(), e, []string{"-width", "0", in}))
	assert.Contains(t, out.String(), "header: 2x3")
	assert.Contains(t, out.String(), "range: [-1, 1]")

	out.Reset()
	require.NoError(t, cmdInspect(context.Background(), e, []string{"-dump", "-width", "3", in}))
	assert.Contains(t, out.String(), "NoData")
	assert.Contains(t, out.String(), "~")

	assert.Error(t, cmdInspect(context.Background(), e, nil))
}

// TestCmdCoastline verifies the CSV output and the summary line.
func TestCmdCoastline(t *testing.T) {
	e, out := testEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.asc")
	csv := filepath.Join(dir, "shore.csv")
	writeRaster(t, in, raster.Header{Rows: 3, Cols: 3, DX: 1, DY: 1, NoData: -9999},
		func(i, j int) float64 {
			if i == 1 && j == 1 {
				return 5
			}
			return -5
		})

	require.NoError(t, cmdCoastline(context.Background(), e, []string{"-in", in, "-out", csv}))
	assert.Equal(t, "1 polylines, 1 islands\n", out.String())
	data, err := os.ReadFile(csv)
	require.NoError(t, err)
	assert.Contains(t, string(data), "line,x,y")

	assert.Error(t, cmdCoastline(context.Background(), e, []string{"-in", in, "-conn", "6"}))
}

// TestCmdRegions verifies the region listing.
func TestCmdRegions(t *testing.T) {
	e, out := testEnv(t)
	require.NoError(t, cmdRegions(context.Background(), e, nil))
	assert.Contains(t, out.String(), "tohoku-65_05-south")
	assert.Contains(t, out.String(), "[140,141.15,35,38.1]")
}
