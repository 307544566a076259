// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goforj/godump"
	"github.com/katalvlaran/topomerge/coastline"
	"github.com/katalvlaran/topomerge/crop"
	"github.com/katalvlaran/topomerge/mask"
	"github.com/katalvlaran/topomerge/merge"
	"github.com/katalvlaran/topomerge/pipeline"
	"github.com/katalvlaran/topomerge/raster"
	"github.com/katalvlaran/topomerge/render"
	"github.com/katalvlaran/topomerge/resample"
)

// mergeFlags registers the flags shared by run and sweep.
func mergeFlags(fs *flag.FlagSet, cfg *pipeline.Config) {
	fs.StringVar(&cfg.Topo, "topo", "", "high-resolution topography `URI`")
	fs.StringVar(&cfg.Bathy, "bathy", "", "low-resolution bathymetry `URI`")
	fs.StringVar(&cfg.Output, "out", "", "output `URI`; must not exist")
	fs.Float64Var(&cfg.ResIn, "res-in", 0, "bathy resolution in arc-seconds (optional)")
	fs.Float64Var(&cfg.ResOut, "res-out", 0, "topo resolution in arc-seconds (optional)")
	fs.Float64Var(&cfg.Replacement, "replacement", cfg.Replacement, "depth written over bathy cells at or above sea level")
	fs.Float64Var(&cfg.SeaLevel, "sea-level", cfg.SeaLevel, "sea level threshold")
	fs.IntVar(&cfg.SkipRows, "skip-rows", cfg.SkipRows, "leading rows left unmasked")
	fs.BoolVar(&cfg.SkipNoData, "skip-nodata", false, "interpolate only valid bathy samples")
	fs.Float64Var(&cfg.AlignTolerance, "tolerance", 0, "alignment tolerance as a fraction of a cell")
	fs.StringVar(&cfg.CheckpointDir, "checkpoints", "", "directory for intermediate rasters")
	fs.StringVar(&cfg.ReportPath, "report", "", "write the JSON report to this `path`")
	fs.BoolVar(&cfg.CountIslands, "islands", false, "count land masses in the result")
}

func writeJSON(e *env, v any) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cmdRun(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("run", "-topo URI -bathy URI -out URI [-region x0,x1,y0,y1 | -name REGION]")
	cfg := pipeline.DefaultConfig()
	mergeFlags(fs, &cfg)
	region := boxFlag{box: &cfg.Region}
	fs.Var(&region, "region", "crop window `xlower,xupper,ylower,yupper`")
	name := fs.String("name", "", "built-in region (see regions)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case region.set && *name != "":
		return errors.New("-region and -name are mutually exclusive")
	case *name != "":
		r, err := pipeline.LookupRegion(*name)
		if err != nil {
			return err
		}
		cfg.Name, cfg.Region = r.Name, r.Box
	case region.set:
		cfg.Name = "custom"
	}

	rep, err := e.runner.Run(ctx, cfg)
	if err != nil {
		return err
	}
	return writeJSON(e, rep)
}

func cmdSweep(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("sweep", "-topo URI -bathy URI -out 'URI-with-{region}' (-regions a,b | -all)")
	cfg := pipeline.DefaultConfig()
	mergeFlags(fs, &cfg)
	names := fs.String("regions", "", "comma-separated built-in regions")
	all := fs.Bool("all", false, "sweep every built-in region")
	prefix := fs.String("prefix", "", "with -all, only regions whose name starts with this")
	concurrency := fs.Int("concurrency", e.cfg.Concurrency, "regions processed at once")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var regions []pipeline.Region
	switch {
	case *all:
		for _, r := range pipeline.KnownRegions() {
			if strings.HasPrefix(r.Name, *prefix) {
				regions = append(regions, r)
			}
		}
	case *names != "":
		for _, n := range strings.Split(*names, ",") {
			r, err := pipeline.LookupRegion(strings.TrimSpace(n))
			if err != nil {
				return err
			}
			regions = append(regions, r)
		}
	default:
		return errors.New("one of -regions or -all is required")
	}

	reps, err := e.runner.Sweep(ctx, pipeline.SweepConfig{Base: cfg, Regions: regions, Concurrency: *concurrency})
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tSTATUS\tSHAPE\tFROM TOPO\tFROM BATHY\tOUTPUT")
	for i, rep := range reps {
		switch {
		case rep == nil:
			fmt.Fprintf(tw, "%s\tinvalid\t\t\t\t\n", regions[i].Name)
		case len(rep.Stages) < 6:
			fmt.Fprintf(tw, "%s\tincomplete\t\t\t\t%s\n", rep.Name, rep.Output)
		default:
			fmt.Fprintf(tw, "%s\tok\t%dx%d\t%d\t%d\t%s\n", rep.Name, rep.OutputShape[0], rep.OutputShape[1],
				rep.FromPrimary, rep.FromSecondary, rep.Output)
		}
	}
	if ferr := tw.Flush(); err == nil {
		err = ferr
	}
	return err
}

func cmdRegions(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("regions", "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, r := range pipeline.KnownRegions() {
		fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.Box)
	}
	return tw.Flush()
}

func cmdCrop(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("crop", "-in URI -out URI (-region x0,x1,y0,y1 | -like URI)")
	in := fs.String("in", "", "input `URI`")
	out := fs.String("out", "", "output `URI`")
	like := fs.String("like", "", "crop to the extent of this raster")
	var box raster.BoundingBox
	region := boxFlag{box: &box}
	fs.Var(&region, "region", "crop window `xlower,xupper,ylower,yupper`")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}
	if region.set == (*like != "") {
		return errors.New("exactly one of -region or -like is required")
	}

	r, err := e.store.Load(ctx, *in)
	if err != nil {
		return err
	}
	var cut *raster.Raster
	if *like != "" {
		ref, err := e.store.Load(ctx, *like)
		if err != nil {
			return err
		}
		cut, err = crop.To(r, ref)
		if err != nil {
			return err
		}
	} else if cut, err = crop.Crop(r, box); err != nil {
		return err
	}
	e.log.Info("cropped", "in", *in, "header", cut.Header().String())
	return e.store.Save(ctx, *out, cut)
}

func cmdResample(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("resample", "-in URI -out URI (-res-in N -res-out M | -rows R -cols C | -onto URI)")
	in := fs.String("in", "", "input `URI`")
	out := fs.String("out", "", "output `URI`")
	resIn := fs.Float64("res-in", 0, "input resolution in arc-seconds")
	resOut := fs.Float64("res-out", 0, "output resolution in arc-seconds")
	rows := fs.Int("rows", 0, "target rows")
	cols := fs.Int("cols", 0, "target columns")
	onto := fs.String("onto", "", "resample onto the grid of this raster")
	skip := fs.Bool("skip-nodata", false, "interpolate only valid samples")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}

	opts := []resample.Option{resample.WithMaxCells(e.cfg.MaxCells)}
	if *skip {
		opts = append(opts, resample.WithSkipNoData())
	}
	r, err := e.store.Load(ctx, *in)
	if err != nil {
		return err
	}

	var res *raster.Raster
	switch {
	case *onto != "":
		target, err := e.store.Load(ctx, *onto)
		if err != nil {
			return err
		}
		res, err = resample.Onto(r, target.Header(), opts...)
		if err != nil {
			return err
		}
	case *rows > 0 || *cols > 0:
		if res, err = resample.Resample(r, *rows, *cols, opts...); err != nil {
			return err
		}
	default:
		if res, err = resample.ByResolution(r, *resIn, *resOut, opts...); err != nil {
			return err
		}
	}
	e.log.Info("resampled", "in", *in, "header", res.Header().String())
	return e.store.Save(ctx, *out, res)
}

func cmdMask(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("mask", "-in URI -out URI [-replacement -2] [-sea-level 0] [-skip-rows N]")
	in := fs.String("in", "", "input `URI`")
	out := fs.String("out", "", "output `URI`")
	replacement := fs.Float64("replacement", pipeline.DefaultReplacement, "value written over matching cells")
	seaLevel := fs.Float64("sea-level", pipeline.DefaultSeaLevel, "cells at or above this are replaced")
	skipRows := fs.Int("skip-rows", pipeline.DefaultSkipRows, "leading rows left untouched")
	nan := fs.Bool("nan", true, "also replace NaN cells")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}

	pred := mask.AtOrAbove(*seaLevel)
	if *nan {
		pred = mask.Any(pred, mask.NaN())
	}
	r, err := e.store.Load(ctx, *in)
	if err != nil {
		return err
	}
	masked, n, err := mask.Apply(r, pred, *replacement, &mask.Options{SkipRows: *skipRows})
	if err != nil {
		return err
	}
	e.log.Info("masked", "in", *in, "predicate", pred.String(), "replaced", n)
	return e.store.Save(ctx, *out, masked)
}

func cmdMerge(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("merge", "-primary URI -secondary URI -out URI")
	primary := fs.String("primary", "", "raster whose valid cells win")
	secondary := fs.String("secondary", "", "raster filling primary NoData cells")
	out := fs.String("out", "", "output `URI`")
	shapeOnly := fs.Bool("shape-only", false, "compare shapes only, skip the alignment check")
	tol := fs.Float64("tolerance", 0, "alignment tolerance as a fraction of a cell")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "primary", "secondary", "out"); err != nil {
		return err
	}

	p, err := e.store.Load(ctx, *primary)
	if err != nil {
		return err
	}
	s, err := e.store.Load(ctx, *secondary)
	if err != nil {
		return err
	}
	res, err := merge.Composite(p, s, &merge.Options{AlignTolerance: *tol, ShapeOnly: *shapeOnly})
	if err != nil {
		return err
	}
	e.log.Info("merged", "from_primary", res.FromPrimary, "from_secondary", res.FromSecondary)
	return e.store.Save(ctx, *out, res.Raster)
}

func cmdInspect(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("inspect", "[-dump] [-width N] URI")
	dump := fs.Bool("dump", false, "dump the header and statistics structures")
	width := fs.Int("width", 72, "preview width in characters; 0 disables the preview")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("exactly one URI is required")
	}

	r, err := e.store.Load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	st := r.Stats()
	if *dump {
		godump.Fdump(e.stdout, r.Header(), st)
	} else {
		fmt.Fprintf(e.stdout, "header: %s\n", r.Header())
		fmt.Fprintf(e.stdout, "cells: %d valid=%d nodata=%d nan=%d land=%d\n",
			st.Cells, st.Valid, st.NoData, st.NaN, st.AtOrAboveZero)
		fmt.Fprintf(e.stdout, "range: [%g, %g] mean=%g\n", st.Min, st.Max, st.Mean)
	}
	if *width > 0 {
		return render.ASCII(e.stdout, r, *width)
	}
	return nil
}

func cmdRender(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("render", "-in URI -out file.png [-width N] [-smooth] [-shore]")
	in := fs.String("in", "", "input `URI`")
	out := fs.String("out", "", "PNG `path`; must not exist")
	width := fs.Int("width", 0, "image width in pixels; 0 keeps one pixel per cell")
	smooth := fs.Bool("smooth", false, "Catmull-Rom scaling")
	shore := fs.Bool("shore", false, "overlay the shoreline")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}

	r, err := e.store.Load(ctx, *in)
	if err != nil {
		return err
	}
	opts := render.Options{Width: *width, Smooth: *smooth}
	if *shore {
		g, err := coastline.NewGrid(r, coastline.DefaultOptions())
		if err != nil {
			return err
		}
		opts.Shoreline = g.Shoreline()
	}

	f, err := createExclusive(*out)
	if err != nil {
		return err
	}
	if err := render.PNG(f, r, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func cmdCoastline(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("coastline", "-in URI [-out file.csv] [-conn 4|8]")
	in := fs.String("in", "", "input `URI`")
	out := fs.String("out", "", "CSV `path`; stdout when empty")
	conn := fs.Int("conn", 8, "land connectivity, 4 or 8")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in"); err != nil {
		return err
	}

	opts := coastline.DefaultOptions()
	switch *conn {
	case 4:
		opts.Conn = coastline.Conn4
	case 8:
		opts.Conn = coastline.Conn8
	default:
		return fmt.Errorf("-conn must be 4 or 8, got %d", *conn)
	}

	r, err := e.store.Load(ctx, *in)
	if err != nil {
		return err
	}
	g, err := coastline.NewGrid(r, opts)
	if err != nil {
		return err
	}
	lines := g.Shoreline()
	islands := g.Islands()
	e.log.Info("coastline", "in", *in, "polylines", len(lines), "islands", len(islands))

	if *out == "" {
		return coastline.WriteCSV(e.stdout, lines)
	}
	f, err := createExclusive(*out)
	if err != nil {
		return err
	}
	if err := coastline.WriteCSV(f, lines); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%d polylines, %d islands\n", len(lines), len(islands))
	return nil
}
