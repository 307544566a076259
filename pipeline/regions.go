// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/topomerge/raster"
)

// Region is a named crop window.
type Region struct {
	Name string
	Box  raster.BoundingBox
}

func box(xmin, xmax, ymin, ymax float64) raster.BoundingBox {
	return raster.BoundingBox{XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax}
}

// knownRegions are the study areas the merge was first run over: the two
// SRTM tiles covering the Tohoku coast and the sites around the Banda
// islands.
var knownRegions = map[string]raster.BoundingBox{
	"tohoku-65_04-east":  box(141.7, 145, 41.8, 43.1),
	"tohoku-65_04-west":  box(140.2, 141.7, 40, 42.7),
	"tohoku-65_05-north": box(140.9, 142.185, 38.1, 40),
	"tohoku-65_05-south": box(140, 141.15, 35, 38.1),
	"banda-10001":        box(129.5745653, 129.9745653, -4.717863, -4.317863),
	"banda-10002":        box(128, 128.4, -4, -3.5),
	"banda-10003":        box(129.6, 130, -4.6, -4.45),
	"banda-10004":        box(126.9, 127.3, -3.6, -3.2),
	"banda-10005":        box(128.5, 128.9, -3.8, -3.4),
	"banda-10006":        box(128.5, 129.1, -3.6, -3),
	"banda-cut":          box(129.85, 129.98, -4.589, -4.48),
}

// KnownRegions returns the built-in regions sorted by name.
func KnownRegions() []Region {
	out := make([]Region, 0, len(knownRegions))
	for name, b := range knownRegions {
		out = append(out, Region{Name: name, Box: b})
	}
	slices.SortFunc(out, func(a, b Region) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// LookupRegion returns the built-in region called name.
func LookupRegion(name string) (Region, error) {
	b, ok := knownRegions[name]
	if !ok {
		return Region{}, fmt.Errorf("%w: unknown region %q", ErrConfig, name)
	}
	return Region{Name: name, Box: b}, nil
}
