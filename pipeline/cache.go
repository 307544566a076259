// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/katalvlaran/topomerge/raster"
	"golang.org/x/sync/singleflight"
)

type loadFunc func(ctx context.Context, uri string) (*raster.Raster, error)

// sourceCache keeps decoded inputs keyed by URI. Concurrent misses for the
// same URI share one load. Cached rasters are never mutated by the stages.
type sourceCache struct {
	lru   *expirable.LRU[string, *raster.Raster]
	group singleflight.Group
}

// newSourceCache returns nil when size <= 0, which disables caching.
func newSourceCache(size int, ttl time.Duration) *sourceCache {
	if size <= 0 {
		return nil
	}
	return &sourceCache{lru: expirable.NewLRU[string, *raster.Raster](size, nil, ttl)}
}

// get returns the raster for uri and whether it came from the cache or a
// load started by another caller. The shared load runs detached from any one
// caller's cancellation; a cancelled caller stops waiting and gets ctx.Err()
// while the others still receive the result.
func (c *sourceCache) get(ctx context.Context, uri string, load loadFunc) (*raster.Raster, bool, error) {
	if c == nil {
		r, err := load(ctx, uri)
		return r, false, err
	}
	if r, ok := c.lru.Get(uri); ok {
		return r, true, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(uri, func() (any, error) {
		if r, ok := c.lru.Get(uri); ok {
			return r, nil
		}
		r, err := load(detached, uri)
		if err != nil {
			return nil, err
		}
		c.lru.Add(uri, r)
		return r, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*raster.Raster), res.Shared, nil
	}
}

func (c *sourceCache) size() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

func (c *sourceCache) purge() {
	if c != nil {
		c.lru.Purge()
	}
}
