package csvsource

import (
	"context"
	"sync"

	"github.com/bluele/gcache"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/observability"
)

// Loader reads a dataset from a file.
type Loader interface {
	Load(ctx context.Context, path string, nrows int) (*domain.Dataset, error)
}

// CachedLoader memoizes datasets by row-count cap for the current file path.
// Changing the path purges every cached dataset.
type CachedLoader struct {
	inner   Loader
	cache   gcache.Cache
	metrics *observability.Metrics

	mu   sync.Mutex // serializes loads and path changes
	path string
}

// NewCachedLoader creates a cache decorator around a loader.
func NewCachedLoader(inner Loader, path string, maxEntries int, metrics *observability.Metrics) *CachedLoader {
	return &CachedLoader{
		inner:   inner,
		cache:   gcache.New(maxEntries).Simple().Build(),
		metrics: metrics,
		path:    path,
	}
}

// Load returns the dataset for nrows, reading the file only on a cache miss.
// Failed loads are not cached.
func (c *CachedLoader) Load(ctx context.Context, nrows int) (*domain.Dataset, error) {
	if ds, ok := c.lookup(nrows); ok {
		c.metrics.DatasetCache.WithLabelValues("hit").Inc()
		return ds, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have loaded it while we waited.
	if ds, ok := c.lookup(nrows); ok {
		c.metrics.DatasetCache.WithLabelValues("hit").Inc()
		return ds, nil
	}
	c.metrics.DatasetCache.WithLabelValues("miss").Inc()

	ds, err := c.inner.Load(ctx, c.path, nrows)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(nrows, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// Path returns the file the cache currently serves.
func (c *CachedLoader) Path() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// SetPath switches the source file, purging the cache if the path changed.
func (c *CachedLoader) SetPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if path == c.path {
		return
	}
	c.path = path
	c.cache.Purge()
}

// Invalidate drops every cached dataset.
func (c *CachedLoader) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}

// Len returns the number of cached datasets.
func (c *CachedLoader) Len() int {
	return c.cache.Len(false)
}

func (c *CachedLoader) lookup(nrows int) (*domain.Dataset, bool) {
	v, err := c.cache.GetIFPresent(nrows)
	if err != nil {
		return nil, false
	}
	ds, ok := v.(*domain.Dataset)
	return ds, ok
}
