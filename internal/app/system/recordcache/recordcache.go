// internal/app/system/recordcache/recordcache.go

// Package recordcache holds the process-wide record collection each
// list page reads. The cache is populated from the resource's gateway
// and served as snapshots; only the modal orchestrator asks for an
// invalidation, and only after a mutating call succeeded. List pages
// never trigger refetches themselves beyond the lazy first load.
package recordcache

import (
	"context"
	"sync"
)

// Loader fetches the full record collection from the data gateway.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Cache is a lazily loaded, explicitly invalidated snapshot of one
// resource's records. Safe for concurrent use.
type Cache[T any] struct {
	mu      sync.Mutex
	load    Loader[T]
	records []T
	fresh   bool
}

// New creates an empty, stale cache around the loader.
func New[T any](load Loader[T]) *Cache[T] {
	return &Cache[T]{load: load}
}

// Snapshot returns the current record collection, loading it through
// the gateway if the cache is stale. The returned slice is a copy;
// callers may not observe later refreshes through it.
func (c *Cache[T]) Snapshot(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fresh {
		records, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		c.records = records
		c.fresh = true
	}

	out := make([]T, len(c.records))
	copy(out, c.records)
	return out, nil
}

// Invalidate marks the cache stale so the next Snapshot refetches.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.fresh = false
	c.mu.Unlock()
}
