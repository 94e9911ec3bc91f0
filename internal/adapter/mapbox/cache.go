package mapbox

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/observability"
)

// cacheTTL bounds how long a place label is reused.
const cacheTTL = 24 * time.Hour

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   gcache.Cache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner: inner,
		cache: gcache.New(maxEntries).
			LRU().
			Expiration(cacheTTL).
			Build(),
		metrics: metrics,
	}
}

// ReverseGeocode returns the cached place for the coordinate, calling the
// inner geocoder on a miss. Coordinates are keyed at six decimals.
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.Place, error) {
	key := fmt.Sprintf("rev:%.6f,%.6f", lat, lon)
	if v, err := c.cache.GetIFPresent(key); err == nil {
		if place, ok := v.(domain.Place); ok {
			c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
			return place, nil
		}
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	place, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return place, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if place.FormattedAddress != "" {
		_ = c.cache.Set(key, place)
	}
	return place, nil
}

// Len returns the number of cached places.
func (c *CachedGeocoder) Len() int {
	return c.cache.Len(false)
}
