// SPDX-License-Identifier: MIT

package rasterio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Backend is the storage a Store reads from and writes to.
type Backend interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Exists(ctx context.Context, name string) (bool, error)
	// Create returns a writer whose output becomes visible under name only
	// after Commit. It must never replace an existing object.
	Create(ctx context.Context, name string) (PendingWriter, error)
}

// PendingWriter is an output that is published by Commit or discarded by
// Abort. Exactly one of the two must be called.
type PendingWriter interface {
	io.Writer
	Commit() error
	Abort()
}

// LocalBackend is the filesystem.
type LocalBackend struct{}

func (LocalBackend) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, err
}

func (LocalBackend) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Create opens a temporary file next to name; Commit hard-links it into place,
// which fails atomically if name appeared in the meantime.
func (LocalBackend) Create(_ context.Context, name string) (PendingWriter, error) {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &localWriter{File: tmp, target: name}, nil
}

type localWriter struct {
	*os.File
	target string
}

func (w *localWriter) Commit() error {
	tmp := w.File.Name()
	defer os.Remove(tmp)
	if err := w.File.Sync(); err != nil {
		w.File.Close()
		return err
	}
	if err := w.File.Close(); err != nil {
		return err
	}
	if err := os.Link(tmp, w.target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDestinationExists, w.target)
		}
		return err
	}
	return nil
}

func (w *localWriter) Abort() {
	w.File.Close()
	os.Remove(w.File.Name())
}
