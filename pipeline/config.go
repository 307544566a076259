// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/topomerge/raster"
)

// Defaults for a merge run.
const (
	DefaultReplacement = -2.0
	DefaultSeaLevel    = 0.0
	DefaultSkipRows    = 0
)

// ErrConfig reports an unusable run configuration.
var ErrConfig = errors.New("pipeline: invalid config")

// Config describes one merge run.
type Config struct {
	// Name labels logs, checkpoints and the report.
	Name string

	// Topo is the high-resolution raster whose values win.
	Topo string
	// Bathy is the low-resolution raster that fills topo's NoData cells.
	Bathy string
	// Output receives the composite. It must not exist.
	Output string

	Region raster.BoundingBox

	// ResIn and ResOut are the nominal bathy and topo resolutions in
	// arc-seconds. When both are set they must satisfy
	// resample.ScaleFactor and match the cell-size ratio of the inputs.
	ResIn, ResOut float64

	// Replacement is written into resampled bathy cells at or above SeaLevel.
	Replacement float64
	SeaLevel    float64
	// SkipRows leaves the first SkipRows rows of the resampled bathy unmasked.
	SkipRows int

	// SkipNoData triangulates only valid bathy samples when resampling.
	SkipNoData bool

	// AlignTolerance is forwarded to merge.Options.
	AlignTolerance float64

	// CheckpointDir, when set, receives every intermediate raster.
	CheckpointDir string
	// ReportPath, when set, receives the JSON run report.
	ReportPath string

	// CountIslands adds the number of land masses in the composite to the report.
	CountIslands bool

	// Meta is copied verbatim into the report.
	Meta map[string]string
}

// DefaultConfig returns the settings of the reference Tohoku merge.
func DefaultConfig() Config {
	return Config{
		Name:        "tohoku-65_05-south",
		Region:      raster.BoundingBox{XMin: 140, XMax: 141.15, YMin: 35, YMax: 38.1},
		Replacement: DefaultReplacement,
		SeaLevel:    DefaultSeaLevel,
		SkipRows:    DefaultSkipRows,
	}
}

// Validate checks that c names its inputs and output and carries a usable
// region. Resolution consistency is checked once the inputs are loaded.
func (c *Config) Validate() error {
	switch {
	case c.Topo == "":
		return fmt.Errorf("%w: topo source is required", ErrConfig)
	case c.Bathy == "":
		return fmt.Errorf("%w: bathy source is required", ErrConfig)
	case c.Output == "":
		return fmt.Errorf("%w: output is required", ErrConfig)
	case c.SkipRows < 0:
		return fmt.Errorf("%w: skip rows %d", ErrConfig, c.SkipRows)
	case (c.ResIn > 0) != (c.ResOut > 0):
		return fmt.Errorf("%w: res_in and res_out must be set together", ErrConfig)
	}
	if err := c.Region.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}
