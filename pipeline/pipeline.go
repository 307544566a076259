// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/topomerge/coastline"
	"github.com/katalvlaran/topomerge/crop"
	"github.com/katalvlaran/topomerge/internal/log"
	"github.com/katalvlaran/topomerge/mask"
	"github.com/katalvlaran/topomerge/merge"
	"github.com/katalvlaran/topomerge/raster"
	"github.com/katalvlaran/topomerge/rasterio"
	"github.com/katalvlaran/topomerge/rasterpack"
	"github.com/katalvlaran/topomerge/resample"
	"golang.org/x/sync/errgroup"
)

// resolutionTolerance is the relative slack allowed between the declared
// resolution ratio and the ratio of the input cell sizes.
const resolutionTolerance = 1e-3

// Options configures a Runner. The zero value loads through a private
// rasterio.Store, caches nothing and logs nowhere.
type Options struct {
	Store  *rasterio.Store
	Logger *log.Logger

	// CacheSize is the number of decoded sources kept between runs.
	// Zero disables the cache.
	CacheSize int
	CacheTTL  time.Duration

	// MaxCells caps every resampled raster. Zero keeps the resample default.
	MaxCells int
}

// Runner executes merge runs. It is safe for concurrent use; Sweep relies
// on that.
type Runner struct {
	store    *rasterio.Store
	log      *log.Logger
	cache    *sourceCache
	maxCells int
}

// NewRunner returns a Runner configured by opts.
func NewRunner(opts Options) *Runner {
	store := opts.Store
	if store == nil {
		store = rasterio.NewStore(rasterio.Options{})
	}
	return &Runner{
		store:    store,
		log:      opts.Logger,
		cache:    newSourceCache(opts.CacheSize, opts.CacheTTL),
		maxCells: opts.MaxCells,
	}
}

// Run executes cfg with a fresh Runner built from default Options.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	return NewRunner(Options{}).Run(ctx, cfg)
}

// CachedSources reports how many decoded sources are currently cached.
func (p *Runner) CachedSources() int { return p.cache.size() }

// PurgeCache drops every cached source.
func (p *Runner) PurgeCache() { p.cache.purge() }

// run carries the state of one Run call.
type run struct {
	*Runner
	cfg Config
	rep *Report
	lg  *log.Logger
}

// Run executes every stage of cfg and returns its report. On failure the
// report covers the stages that completed and the error names the stage
// that failed. Checkpoints already written are kept.
func (p *Runner) Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	rn := &run{
		Runner: p,
		cfg:    cfg,
		rep: &Report{
			RunID:   id,
			Name:    cfg.Name,
			Started: time.Now(),
			Region:  cfg.Region.String(),
			Output:  cfg.Output,
			Islands: -1,
			Meta:    cfg.Meta,
		},
		lg: p.log.With(slog.String("run", id), slog.String("name", cfg.Name)),
	}
	rn.lg.Info("run started", slog.String("topo", cfg.Topo), slog.String("bathy", cfg.Bathy),
		slog.String("region", rn.rep.Region))

	if err := rn.execute(ctx); err != nil {
		rn.lg.Error("run failed", slog.Any("error", err))
		return rn.rep, err
	}
	if cfg.ReportPath != "" {
		if err := rn.rep.WriteFile(cfg.ReportPath); err != nil {
			return rn.rep, fmt.Errorf("pipeline: report: %w", err)
		}
	}
	rn.lg.Info("run finished", slog.Duration("took", time.Since(rn.rep.Started)))
	return rn.rep, nil
}

// stage runs fn as the named stage, recording its timing on success.
func (rn *run) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("pipeline: %s: %w", name, err)
	}
	start := time.Now()
	if err := fn(); err != nil {
		return fmt.Errorf("pipeline: %s: %w", name, err)
	}
	took := time.Since(start)
	rn.rep.Stages = append(rn.rep.Stages, StageTiming{Name: name, Took: took})
	rn.lg.Stage(name, took)
	return nil
}

func (rn *run) execute(ctx context.Context) error {
	var topo, bathy *raster.Raster
	if err := rn.stage(ctx, StageLoad, func() (err error) {
		topo, bathy, err = rn.loadSources(ctx)
		return err
	}); err != nil {
		return err
	}

	var topoSmall, bathySmall *raster.Raster
	if err := rn.stage(ctx, StageCrop, func() (err error) {
		if bathySmall, err = crop.Crop(bathy, rn.cfg.Region); err != nil {
			return fmt.Errorf("bathy: %w", err)
		}
		if topoSmall, err = crop.To(topo, bathySmall); err != nil {
			return fmt.Errorf("topo: %w", err)
		}
		rn.rep.TopoShape = shape(topoSmall)
		rn.rep.BathyShape = shape(bathySmall)
		if err = rn.checkResolution(bathySmall.Header(), topoSmall.Header()); err != nil {
			return err
		}
		if err = rn.checkpoint(ctx, "bathy-crop", bathySmall); err != nil {
			return err
		}
		return rn.checkpoint(ctx, "topo-crop", topoSmall)
	}); err != nil {
		return err
	}

	var resampled *raster.Raster
	if err := rn.stage(ctx, StageResample, func() (err error) {
		resampled, err = resample.Onto(bathySmall, topoSmall.Header(), rn.resampleOptions()...)
		if err != nil {
			return err
		}
		return rn.checkpoint(ctx, "bathy-resampled", resampled)
	}); err != nil {
		return err
	}

	var masked *raster.Raster
	if err := rn.stage(ctx, StageMask, func() (err error) {
		pred := mask.Any(mask.AtOrAbove(rn.cfg.SeaLevel), mask.NaN())
		masked, rn.rep.Masked, err = mask.Apply(resampled, pred, rn.cfg.Replacement,
			&mask.Options{SkipRows: rn.cfg.SkipRows})
		if err != nil {
			return err
		}
		return rn.checkpoint(ctx, "bathy-masked", masked)
	}); err != nil {
		return err
	}

	var res *merge.Result
	if err := rn.stage(ctx, StageMerge, func() (err error) {
		res, err = merge.Composite(topoSmall, masked, &merge.Options{AlignTolerance: rn.cfg.AlignTolerance})
		if err != nil {
			return err
		}
		rn.rep.FromPrimary, rn.rep.FromSecondary = res.FromPrimary, res.FromSecondary
		rn.rep.OutputShape = shape(res.Raster)
		if rn.cfg.CountIslands {
			g, err := coastline.NewGrid(res.Raster, coastline.DefaultOptions())
			if err != nil {
				return err
			}
			rn.rep.Islands = len(g.Islands())
		}
		return nil
	}); err != nil {
		return err
	}

	return rn.stage(ctx, StageSave, func() error {
		return rn.store.Save(ctx, rn.cfg.Output, res.Raster)
	})
}

// loadSources reads topo and bathy concurrently.
func (rn *run) loadSources(ctx context.Context) (topo, bathy *raster.Raster, err error) {
	var hits [2]bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		topo, hits[0], err = rn.cache.get(gctx, rn.cfg.Topo, rn.store.Load)
		if err != nil {
			return fmt.Errorf("topo: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		bathy, hits[1], err = rn.cache.get(gctx, rn.cfg.Bathy, rn.store.Load)
		if err != nil {
			return fmt.Errorf("bathy: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	for _, h := range hits {
		if h {
			rn.rep.CacheHits++
		}
	}
	rn.lg.Debug("sources loaded",
		slog.String("topo", topo.Header().String()),
		slog.String("bathy", bathy.Header().String()))
	return topo, bathy, nil
}

// checkResolution validates the declared res_in/res_out pair against the
// cropped inputs. It is a no-op when no resolutions are declared.
func (rn *run) checkResolution(bathy, topo raster.Header) error {
	if rn.cfg.ResIn == 0 && rn.cfg.ResOut == 0 {
		return nil
	}
	k, err := resample.ScaleFactor(rn.cfg.ResIn, rn.cfg.ResOut)
	if err != nil {
		return err
	}
	ratio := bathy.DX / topo.DX
	if !raster.Near(ratio, float64(k), resolutionTolerance*float64(k)) {
		return fmt.Errorf("%w: declared %g/%g=%d but cell sizes give %.4g",
			resample.ErrInvalidResolution, rn.cfg.ResIn, rn.cfg.ResOut, k, ratio)
	}
	return nil
}

func (rn *run) resampleOptions() []resample.Option {
	var opts []resample.Option
	if rn.cfg.SkipNoData {
		opts = append(opts, resample.WithSkipNoData())
	}
	if rn.maxCells > 0 {
		opts = append(opts, resample.WithMaxCells(rn.maxCells))
	}
	return opts
}

// checkpoint writes r to the checkpoint directory when one is configured.
func (rn *run) checkpoint(ctx context.Context, label string, r *raster.Raster) error {
	if rn.cfg.CheckpointDir == "" {
		return nil
	}
	name := rn.cfg.Name
	if name == "" {
		name = "run"
	}
	path := filepath.Join(rn.cfg.CheckpointDir,
		fmt.Sprintf("%s-%s-%s%s", name, rn.rep.RunID[:8], label, rasterpack.Ext))
	if err := rn.store.Save(ctx, path, r); err != nil {
		return fmt.Errorf("checkpoint %s: %w", label, err)
	}
	rn.rep.Checkpoints = append(rn.rep.Checkpoints, path)
	rn.lg.Debug("checkpoint written", slog.String("path", path))
	return nil
}

func shape(r *raster.Raster) [2]int {
	rows, cols := r.Shape()
	return [2]int{rows, cols}
}

