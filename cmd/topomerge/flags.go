// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/topomerge/raster"
	"github.com/katalvlaran/topomerge/rasterio"
)

// boxFlag parses "xlower,xupper,ylower,yupper".
type boxFlag struct {
	box *raster.BoundingBox
	set bool
}

func (b *boxFlag) String() string {
	if b == nil || b.box == nil {
		return ""
	}
	return b.box.String()
}

func (b *boxFlag) Set(s string) error {
	box, err := parseBox(s)
	if err != nil {
		return err
	}
	*b.box, b.set = box, true
	return nil
}

func parseBox(s string) (raster.BoundingBox, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(s), "[]"), ",")
	if len(parts) != 4 {
		return raster.BoundingBox{}, fmt.Errorf("%w: want xlower,xupper,ylower,yupper, got %q", raster.ErrBadBox, s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return raster.BoundingBox{}, fmt.Errorf("%w: %q: %v", raster.ErrBadBox, p, err)
		}
		v[i] = f
	}
	box := raster.BoundingBox{XMin: v[0], XMax: v[1], YMin: v[2], YMax: v[3]}
	return box, box.Validate()
}

// newFlagSet returns a FlagSet that reports errors instead of exiting.
func newFlagSet(name, synopsis string) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.Usage = func() {
		fmt.Fprintf(set.Output(), "usage: topomerge %s %s\n", name, synopsis)
		set.PrintDefaults()
	}
	return set
}

// required returns an error naming the first empty flag value.
func required(set *flag.FlagSet, names ...string) error {
	for _, n := range names {
		if f := set.Lookup(n); f == nil || f.Value.String() == "" {
			return fmt.Errorf("-%s is required", n)
		}
	}
	return nil
}

// createExclusive creates path for writing, refusing to replace it.
func createExclusive(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%w: %s", rasterio.ErrDestinationExists, path)
	}
	return f, err
}
