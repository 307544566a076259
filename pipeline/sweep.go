// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/brunoga/deep"
	"golang.org/x/sync/errgroup"
)

// RegionPlaceholder is replaced by the region name in Output and
// ReportPath of a sweep's base configuration.
const RegionPlaceholder = "{region}"

// SweepConfig runs Base once per region.
type SweepConfig struct {
	Base    Config
	Regions []Region

	// Concurrency bounds the number of regions in flight. Zero means
	// runtime.NumCPU.
	Concurrency int
}

// Configs expands sc into one validated Config per region. Each is a deep
// copy of Base with its name, region, paths and meta set.
func (sc SweepConfig) Configs() ([]Config, error) {
	if len(sc.Regions) == 0 {
		return nil, fmt.Errorf("%w: sweep has no regions", ErrConfig)
	}
	multi := len(sc.Regions) > 1
	if multi && !strings.Contains(sc.Base.Output, RegionPlaceholder) {
		return nil, fmt.Errorf("%w: sweep output %q lacks %s", ErrConfig, sc.Base.Output, RegionPlaceholder)
	}
	if multi && sc.Base.ReportPath != "" && !strings.Contains(sc.Base.ReportPath, RegionPlaceholder) {
		return nil, fmt.Errorf("%w: sweep report path %q lacks %s", ErrConfig, sc.Base.ReportPath, RegionPlaceholder)
	}

	seen := make(map[string]bool, len(sc.Regions))
	out := make([]Config, 0, len(sc.Regions))
	for _, reg := range sc.Regions {
		if reg.Name == "" || seen[reg.Name] {
			return nil, fmt.Errorf("%w: region name %q empty or repeated", ErrConfig, reg.Name)
		}
		seen[reg.Name] = true

		cfg := deep.MustCopy(sc.Base)
		cfg.Name = reg.Name
		cfg.Region = reg.Box
		cfg.Output = strings.ReplaceAll(cfg.Output, RegionPlaceholder, reg.Name)
		cfg.ReportPath = strings.ReplaceAll(cfg.ReportPath, RegionPlaceholder, reg.Name)
		if cfg.Meta == nil {
			cfg.Meta = make(map[string]string, 1)
		}
		cfg.Meta["region"] = reg.Name
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("region %s: %w", reg.Name, err)
		}
		out = append(out, cfg)
	}
	return out, nil
}

// Sweep runs every region of sc. Reports are returned in region order. The
// first failure cancels the regions still running or queued and is returned
// alongside every report gathered; a cancelled region's report lists only
// the stages it completed.
func (p *Runner) Sweep(ctx context.Context, sc SweepConfig) ([]*Report, error) {
	cfgs, err := sc.Configs()
	if err != nil {
		return nil, err
	}
	limit := sc.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	reports := make([]*Report, len(cfgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, cfg := range cfgs {
		g.Go(func() error {
			rep, err := p.Run(gctx, cfg)
			reports[i] = rep
			if err != nil {
				return fmt.Errorf("region %s: %w", cfg.Name, err)
			}
			return nil
		})
	}
	err = g.Wait()
	return reports, err
}
