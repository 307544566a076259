// SPDX-License-Identifier: MIT

// Command topomerge merges high-resolution topography with low-resolution
// bathymetry and provides the individual stages as subcommands.
//
// Usage:
//
//	topomerge <command> [flags] [args]
//
// Examples:
//
//	topomerge run -topo srtm_65_05.asc -bathy tohoku.tt3 -out merged.tt3 -region 140,141.15,35,38.1
//	topomerge run -topo srtm_65_05.asc -bathy tohoku.tt3 -out merged.tt3 -name tohoku-65_05-south
//	topomerge sweep -topo srtm_62_13.asc -bathy etopo.tt3 -out 'banda/{region}.tt3' -regions banda-10001,banda-10002
//	topomerge resample -in etopo.tt3 -out banda.tt3 -res-in 60 -res-out 3
//	topomerge inspect -dump merged.tt3
//
// Settings shared by every command come from the environment (and a .env
// file in the working directory): TOPOMERGE_LOG_LEVEL, TOPOMERGE_LOG_DIR,
// TOPOMERGE_CACHE_SIZE, TOPOMERGE_CACHE_TTL, TOPOMERGE_CONCURRENCY,
// TOPOMERGE_MAX_CELLS and TOPOMERGE_GCS_CREDENTIALS.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/katalvlaran/topomerge/internal/config"
	"github.com/katalvlaran/topomerge/internal/log"
	"github.com/katalvlaran/topomerge/pipeline"
	"github.com/katalvlaran/topomerge/rasterio"
)

// env is the state shared by every command.
type env struct {
	cfg    *config.Config
	log    *log.Logger
	store  *rasterio.Store
	runner *pipeline.Runner
	stdout io.Writer
}

type command struct {
	name string
	help string
	run  func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{"run", "merge one region end to end", cmdRun},
	{"sweep", "merge several named regions", cmdSweep},
	{"regions", "list the built-in regions", cmdRegions},
	{"crop", "cut a raster to a bounding box", cmdCrop},
	{"resample", "refine a raster by linear interpolation", cmdResample},
	{"mask", "replace cells at or above sea level", cmdMask},
	{"merge", "fill primary NoData cells from a secondary raster", cmdMerge},
	{"inspect", "print a header, statistics and a text preview", cmdInspect},
	{"render", "write a PNG preview", cmdRender},
	{"coastline", "extract the shoreline as CSV and count islands", cmdCoastline},
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	idx := slices.IndexFunc(commands, func(c command) bool { return c.name == flag.Arg(0) })
	if idx < 0 {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	e, err := newEnv(".env", os.Stdout)
	if err != nil {
		fatalf("%v", err)
	}
	defer e.store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands[idx].run(ctx, e, flag.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		e.log.Error("command failed", "command", commands[idx].name, "error", err)
		fatalf("%s: %v", commands[idx].name, err)
	}
}

// newEnv loads configuration and builds the logger, store and runner.
func newEnv(envFile string, stdout io.Writer) (*env, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	creds, err := cfg.ReadCredentials()
	if err != nil {
		return nil, err
	}
	lg := log.New(cfg.LogLevel, cfg.LogDir)
	store := rasterio.NewStore(rasterio.Options{GCSCredentialsJSON: string(creds)})
	return &env{
		cfg:   cfg,
		log:   lg,
		store: store,
		runner: pipeline.NewRunner(pipeline.Options{
			Store:     store,
			Logger:    lg,
			CacheSize: cfg.CacheSize,
			CacheTTL:  cfg.CacheTTL,
			MaxCells:  cfg.MaxCells,
		}),
		stdout: stdout,
	}, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `topomerge: merge high-resolution topography with low-resolution bathymetry

Usage:
  topomerge <command> [flags] [args]

Commands:`)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.help)
	}
	fmt.Fprintln(os.Stderr, `
Run "topomerge <command> -h" for the flags of a command.`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
