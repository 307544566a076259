// SPDX-License-Identifier: MIT

package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/katalvlaran/topomerge/rasterio"
)

// Stage names, in execution order.
const (
	StageLoad     = "load"
	StageCrop     = "crop"
	StageResample = "resample"
	StageMask     = "mask"
	StageMerge    = "merge"
	StageSave     = "save"
)

// StageTiming is the wall time of one completed stage.
type StageTiming struct {
	Name string
	Took time.Duration
}

// Report summarises a run.
type Report struct {
	RunID   string
	Name    string
	Started time.Time
	Stages  []StageTiming

	Region string
	Output string

	TopoShape     [2]int
	BathyShape    [2]int
	OutputShape   [2]int
	CacheHits     int
	Masked        int
	FromPrimary   int
	FromSecondary int
	// Islands is -1 unless Config.CountIslands is set.
	Islands int

	Checkpoints []string
	Meta        map[string]string
}

// Took returns the duration of the named stage, or zero if it did not run.
func (r *Report) Took(stage string) time.Duration {
	for _, s := range r.Stages {
		if s.Name == stage {
			return s.Took
		}
	}
	return 0
}

// MarshalJSON writes the report with a fixed key order.
func (r *Report) MarshalJSON() ([]byte, error) {
	o := orderedmap.New()
	o.SetEscapeHTML(false)
	o.Set("run_id", r.RunID)
	o.Set("name", r.Name)
	o.Set("started", r.Started.UTC().Format(time.RFC3339))
	o.Set("region", r.Region)
	o.Set("output", r.Output)

	stages := orderedmap.New()
	for _, s := range r.Stages {
		stages.Set(s.Name, s.Took.Seconds())
	}
	o.Set("stages_seconds", stages)

	cells := orderedmap.New()
	cells.Set("topo", r.TopoShape)
	cells.Set("bathy", r.BathyShape)
	cells.Set("output", r.OutputShape)
	o.Set("shapes", cells)

	counts := orderedmap.New()
	counts.Set("cache_hits", r.CacheHits)
	counts.Set("masked", r.Masked)
	counts.Set("from_topo", r.FromPrimary)
	counts.Set("from_bathy", r.FromSecondary)
	if r.Islands >= 0 {
		counts.Set("islands", r.Islands)
	}
	o.Set("counts", counts)

	if len(r.Checkpoints) > 0 {
		o.Set("checkpoints", r.Checkpoints)
	}
	if len(r.Meta) > 0 {
		meta := orderedmap.New()
		keys := make([]string, 0, len(r.Meta))
		for k := range r.Meta {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			meta.Set(k, r.Meta[k])
		}
		o.Set("meta", meta)
	}

	return json.Marshal(o)
}

// WriteFile writes the indented JSON report to path. An existing file is
// left untouched and rasterio.ErrDestinationExists returned.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", rasterio.ErrDestinationExists, path)
		}
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
