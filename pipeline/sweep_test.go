package pipeline_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/topomerge/crop"
	"github.com/katalvlaran/topomerge/pipeline"
	"github.com/katalvlaran/topomerge/raster"
	"github.com/katalvlaran/topomerge/rasterio"
)

func regions() []pipeline.Region {
	return []pipeline.Region{
		{Name: "full", Box: raster.BoundingBox{XMin: 0, XMax: 3, YMin: 0, YMax: 3}},
		{Name: "west", Box: raster.BoundingBox{XMin: 0, XMax: 2, YMin: 0, YMax: 3}},
	}
}

// TestSweepConfig_Configs verifies per-region expansion and that the base
// configuration is left untouched.
func TestSweepConfig_Configs(t *testing.T) {
	base := baseConfig("/data", "/data/topo.asc", "/data/bathy.tt3")
	base.Output = "/data/out-{region}.tt3"
	base.ReportPath = "/data/{region}.json"
	base.Meta = map[string]string{"tile": "65_05"}

	cfgs, err := pipeline.SweepConfig{Base: base, Regions: regions()}.Configs()
	require.NoError(t, err)
	require.Len(t, cfgs, 2)

	assert.Equal(t, "full", cfgs[0].Name)
	assert.Equal(t, "/data/out-full.tt3", cfgs[0].Output)
	assert.Equal(t, "/data/west.json", cfgs[1].ReportPath)
	assert.Equal(t, 2.0, cfgs[1].Region.XMax)
	assert.Equal(t, map[string]string{"tile": "65_05", "region": "west"}, cfgs[1].Meta)

	assert.Equal(t, map[string]string{"tile": "65_05"}, base.Meta)
	assert.Equal(t, "/data/out-{region}.tt3", base.Output)
}

// TestSweepConfig_Errors verifies rejected sweeps.
func TestSweepConfig_Errors(t *testing.T) {
	base := baseConfig("/data", "/data/topo.asc", "/data/bathy.tt3")

	_, err := pipeline.SweepConfig{Base: base}.Configs()
	assert.ErrorIs(t, err, pipeline.ErrConfig)

	_, err = pipeline.SweepConfig{Base: base, Regions: regions()}.Configs()
	assert.ErrorIs(t, err, pipeline.ErrConfig, "output without placeholder")

	base.Output = "/data/{region}.tt3"
	dup := append(regions(), regions()[0])
	_, err = pipeline.SweepConfig{Base: base, Regions: dup}.Configs()
	assert.ErrorIs(t, err, pipeline.ErrConfig, "duplicate region")

	bad := []pipeline.Region{{Name: "inverted", Box: raster.BoundingBox{XMin: 2, XMax: 1, YMin: 0, YMax: 1}}}
	_, err = pipeline.SweepConfig{Base: base, Regions: bad}.Configs()
	assert.ErrorIs(t, err, raster.ErrBadBox)
}

// TestSweep verifies that each region is merged into its own output.
func TestSweep(t *testing.T) {
	dir, topo, bathy := fixtures(t)
	base := baseConfig(dir, topo, bathy)
	base.Output = filepath.Join(dir, "merged-{region}.tt3")

	runner := pipeline.NewRunner(pipeline.Options{CacheSize: 4})
	reps, err := runner.Sweep(context.Background(), pipeline.SweepConfig{
		Base: base, Regions: regions(), Concurrency: 2,
	})
	require.NoError(t, err)
	require.Len(t, reps, 2)

	assert.Equal(t, "full", reps[0].Name)
	assert.Equal(t, [2]int{6, 6}, reps[0].OutputShape)
	assert.Equal(t, "west", reps[1].Name)
	assert.Equal(t, [2]int{6, 4}, reps[1].OutputShape)
	assert.Equal(t, 2, runner.CachedSources())

	for _, name := range []string{"full", "west"} {
		ok, err := rasterio.NewStore(rasterio.Options{}).Exists(context.Background(),
			filepath.Join(dir, "merged-"+name+".tt3"))
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
}

// TestSweep_FirstErrorReturned verifies that a failing region fails the sweep.
func TestSweep_FirstErrorReturned(t *testing.T) {
	dir, topo, bathy := fixtures(t)
	base := baseConfig(dir, topo, bathy)
	base.Output = filepath.Join(dir, "merged-{region}.tt3")
	regs := append(regions(), pipeline.Region{
		Name: "offshore", Box: raster.BoundingBox{XMin: 40, XMax: 41, YMin: 40, YMax: 41},
	})

	reps, err := pipeline.NewRunner(pipeline.Options{}).Sweep(context.Background(),
		pipeline.SweepConfig{Base: base, Regions: regs, Concurrency: 1})
	require.ErrorIs(t, err, crop.ErrEmptyRegion)
	assert.Contains(t, err.Error(), "offshore")
	assert.Len(t, reps, 3)
}

// TestKnownRegions verifies the built-in region list.
func TestKnownRegions(t *testing.T) {
	regs := pipeline.KnownRegions()
	require.NotEmpty(t, regs)
	for i, r := range regs {
		require.NoError(t, r.Box.Validate(), r.Name)
		if i > 0 {
			assert.Less(t, regs[i-1].Name, r.Name)
		}
	}

	r, err := pipeline.LookupRegion("tohoku-65_05-south")
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultConfig().Region, r.Box)

	_, err = pipeline.LookupRegion("atlantis")
	assert.ErrorIs(t, err, pipeline.ErrConfig)
}
