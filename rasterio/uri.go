// SPDX-License-Identifier: MIT

package rasterio

import (
	"fmt"
	"path"
	"strings"
)

// Scheme identifies a storage backend.
type Scheme uint8

const (
	SchemeLocal Scheme = iota
	SchemeGCS
)

// Compression identifies a stream wrapper chosen by suffix.
type Compression uint8

const (
	CompressNone Compression = iota
	CompressGzip
	CompressZstd
)

// Format identifies a raster codec chosen by suffix.
type Format uint8

const (
	FormatESRI Format = iota
	FormatGeoClaw
	FormatPack
)

// Location is a parsed URI.
type Location struct {
	Scheme      Scheme
	Bucket      string // GCS only
	Path        string // local path or object name
	Compression Compression
	Format      Format
}

// String renders the location back as a URI.
func (l Location) String() string {
	if l.Scheme == SchemeGCS {
		return "gs://" + l.Bucket + "/" + l.Path
	}
	return l.Path
}

// Parse splits uri into backend, object and codec.
func Parse(uri string) (Location, error) {
	var loc Location
	switch {
	case strings.HasPrefix(uri, "gs://"):
		bucket, object, ok := strings.Cut(strings.TrimPrefix(uri, "gs://"), "/")
		if !ok || bucket == "" || object == "" || strings.HasSuffix(object, "/") {
			return Location{}, fmt.Errorf("%w: %q", ErrBadURI, uri)
		}
		loc = Location{Scheme: SchemeGCS, Bucket: bucket, Path: object}
	case strings.HasPrefix(uri, "file://"):
		loc = Location{Scheme: SchemeLocal, Path: strings.TrimPrefix(uri, "file://")}
	default:
		loc = Location{Scheme: SchemeLocal, Path: uri}
	}
	if loc.Path == "" {
		return Location{}, fmt.Errorf("%w: empty path", ErrBadURI)
	}

	name := strings.ToLower(path.Base(loc.Path))
	switch {
	case strings.HasSuffix(name, ".gz"):
		loc.Compression = CompressGzip
		name = strings.TrimSuffix(name, ".gz")
	case strings.HasSuffix(name, ".zst"):
		loc.Compression = CompressZstd
		name = strings.TrimSuffix(name, ".zst")
	}
	switch path.Ext(name) {
	case ".rmp":
		loc.Format = FormatPack
	case ".tt3", ".tt2":
		loc.Format = FormatGeoClaw
	}
	return loc, nil
}
