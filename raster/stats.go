// SPDX-License-Identifier: MIT

package raster

import "math"

// Stats summarises a raster for logs and run reports.
// Min, Max and Mean cover valid cells only (neither NoData nor NaN).
type Stats struct {
	Cells  int
	Valid  int
	NoData int
	NaN    int
	Min    float64
	Max    float64
	Mean   float64
	// AtOrAboveZero counts valid cells with value >= 0 (land for a
	// bathymetry grid).
	AtOrAboveZero int
}

// Stats computes summary statistics in one deterministic pass.
// When there are no valid cells, Min, Max and Mean are NaN.
func (r *Raster) Stats() Stats {
	s := Stats{Cells: len(r.data), Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, v := range r.data {
		switch {
		case math.IsNaN(v) && !math.IsNaN(r.hdr.NoData):
			s.NaN++
			continue
		case r.hdr.IsNoData(v):
			s.NoData++
			continue
		}
		s.Valid++
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		if v >= 0 {
			s.AtOrAboveZero++
		}
	}
	if s.Valid == 0 {
		s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Mean = sum / float64(s.Valid)
	return s
}
