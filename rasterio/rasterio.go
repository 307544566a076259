// SPDX-License-Identifier: MIT

package rasterio

import (
	"context"
	"fmt"
	"io"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/katalvlaran/topomerge/asciigrid"
	"github.com/katalvlaran/topomerge/raster"
	"github.com/katalvlaran/topomerge/rasterpack"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Options configures a Store.
type Options struct {
	// GCSCredentialsJSON authenticates gs:// access. Empty uses the
	// application default credentials.
	GCSCredentialsJSON string

	// Precision is passed to asciigrid.EncodeOptions for text output.
	Precision int
}

// Store resolves URIs to backends and codecs. The GCS client is created on
// first gs:// use. Safe for concurrent use.
type Store struct {
	opts  Options
	local Backend

	mu     sync.Mutex
	client *storage.Client
}

// NewStore returns a Store with the given options.
func NewStore(opts Options) *Store {
	return &Store{opts: opts, local: LocalBackend{}}
}

var defaultStore = NewStore(Options{})

// Load reads uri with the default Store.
func Load(ctx context.Context, uri string) (*raster.Raster, error) {
	return defaultStore.Load(ctx, uri)
}

// Save writes r to uri with the default Store.
func Save(ctx context.Context, uri string, r *raster.Raster) error {
	return defaultStore.Save(ctx, uri, r)
}

// Close releases the GCS client, if one was created.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *Store) backend(ctx context.Context, loc Location) (Backend, error) {
	if loc.Scheme == SchemeLocal {
		return s.local, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		c, err := NewGCSClient(ctx, s.opts.GCSCredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("rasterio: gcs client: %w", err)
		}
		s.client = c
	}
	return NewGCSBackend(s.client, loc.Bucket), nil
}

// Exists reports whether uri names an existing object.
func (s *Store) Exists(ctx context.Context, uri string) (bool, error) {
	loc, err := Parse(uri)
	if err != nil {
		return false, err
	}
	b, err := s.backend(ctx, loc)
	if err != nil {
		return false, err
	}
	return b.Exists(ctx, loc.Path)
}

// Load reads and decodes uri.
func (s *Store) Load(ctx context.Context, uri string) (*raster.Raster, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	b, err := s.backend(ctx, loc)
	if err != nil {
		return nil, err
	}
	return LoadFrom(ctx, b, loc)
}

// Save encodes r to uri. Returns ErrDestinationExists when uri exists.
func (s *Store) Save(ctx context.Context, uri string, r *raster.Raster) error {
	if r == nil {
		return raster.ErrNilRaster
	}
	loc, err := Parse(uri)
	if err != nil {
		return err
	}
	b, err := s.backend(ctx, loc)
	if err != nil {
		return err
	}
	return SaveTo(ctx, b, loc, r, s.opts.Precision)
}

// LoadFrom decodes loc from b.
func LoadFrom(ctx context.Context, b Backend, loc Location) (*raster.Raster, error) {
	rc, err := b.Open(ctx, loc.Path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var rd io.Reader = rc
	switch loc.Compression {
	case CompressGzip:
		zr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("rasterio: %s: %w", loc, err)
		}
		defer zr.Close()
		rd = zr
	case CompressZstd:
		zr, err := zstd.NewReader(rc, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("rasterio: %s: %w", loc, err)
		}
		defer zr.Close()
		rd = zr
	}

	var r *raster.Raster
	if loc.Format == FormatPack {
		r, err = rasterpack.Decode(rd)
	} else {
		r, err = asciigrid.Decode(rd)
	}
	if err != nil {
		return nil, fmt.Errorf("rasterio: %s: %w", loc, err)
	}
	return r, nil
}

// SaveTo encodes r to loc on b, never replacing an existing object.
func SaveTo(ctx context.Context, b Backend, loc Location, r *raster.Raster, precision int) (err error) {
	exists, err := b.Exists(ctx, loc.Path)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDestinationExists, loc)
	}

	pw, err := b.Create(ctx, loc.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			pw.Abort()
		}
	}()

	if err := encodeTo(pw, loc, r, precision); err != nil {
		return fmt.Errorf("rasterio: %s: %w", loc, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return pw.Commit()
}

func encodeTo(w io.Writer, loc Location, r *raster.Raster, precision int) error {
	var (
		out   = w
		finish func() error
	)
	switch loc.Compression {
	case CompressGzip:
		zw := gzip.NewWriter(w)
		out, finish = zw, zw.Close
	case CompressZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		out, finish = zw, zw.Close
	}

	var err error
	switch loc.Format {
	case FormatPack:
		err = rasterpack.Encode(out, r)
	case FormatGeoClaw:
		err = asciigrid.Encode(out, r, &asciigrid.EncodeOptions{Style: asciigrid.StyleGeoClaw, Precision: precision})
	default:
		err = asciigrid.Encode(out, r, &asciigrid.EncodeOptions{Style: asciigrid.StyleESRI, Precision: precision})
	}
	if finish != nil {
		if cerr := finish(); err == nil {
			err = cerr
		}
	}
	return err
}
