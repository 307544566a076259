// SPDX-License-Identifier: MIT

package rasterio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GCSBackend stores objects in one Cloud Storage bucket.
type GCSBackend struct {
	bucket *storage.BucketHandle
}

// NewGCSClient creates a Cloud Storage client. Empty credsJSON uses the
// application default credentials.
func NewGCSClient(ctx context.Context, credsJSON string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credsJSON)))
	}
	return storage.NewClient(ctx, opts...)
}

// NewGCSBackend binds client to bucket.
func NewGCSBackend(client *storage.Client, bucket string) *GCSBackend {
	return &GCSBackend{bucket: client.Bucket(bucket)}
}

func (g *GCSBackend) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	r, err := g.bucket.Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return r, err
}

func (g *GCSBackend) Exists(ctx context.Context, name string) (bool, error) {
	_, err := g.bucket.Object(name).Attrs(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrObjectNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Create uploads with a DoesNotExist precondition. Abort cancels the upload
// so no object is created.
func (g *GCSBackend) Create(ctx context.Context, name string) (PendingWriter, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := g.bucket.Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	return &gcsWriter{Writer: w, cancel: cancel, name: name}, nil
}

type gcsWriter struct {
	*storage.Writer
	cancel context.CancelFunc
	name   string
}

func (w *gcsWriter) Commit() error {
	defer w.cancel()
	if err := w.Writer.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return fmt.Errorf("%w: %s", ErrDestinationExists, w.name)
		}
		return err
	}
	return nil
}

func (w *gcsWriter) Abort() {
	w.cancel()
	w.Writer.Close()
}
