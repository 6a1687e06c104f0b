package source

import (
	"context"
	"time"

	"github.com/matzehuels/netloom/pkg/cache"
	"github.com/matzehuels/netloom/pkg/observability"
	"github.com/matzehuels/netloom/pkg/topology"
)

// cacheKeyType labels payload entries in cache hook events.
const cacheKeyType = "payload"

// CachedAdapter wraps an Adapter with payload caching. A hit skips the inner
// fetch entirely; a miss fetches and stores the payload for the next run.
//
// Cache failures never fail the fetch: an unreadable entry degrades to a
// miss, and a failed store is retried with backoff and then dropped.
type CachedAdapter struct {
	inner Adapter
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCachedAdapter wraps inner with the given cache backend. A nil keyer
// falls back to the default keyer; a non-positive ttl falls back to
// DefaultPayloadTTL.
func NewCachedAdapter(inner Adapter, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *CachedAdapter {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = cache.DefaultPayloadTTL
	}
	return &CachedAdapter{
		inner: inner,
		cache: c,
		keyer: keyer,
		ttl:   ttl,
	}
}

// Vendor returns the wrapped adapter's family tag.
func (a *CachedAdapter) Vendor() topology.Vendor {
	return a.inner.Vendor()
}

// CacheRef passes through the wrapped adapter's payload identity.
func (a *CachedAdapter) CacheRef() string {
	if keyed, ok := a.inner.(Keyed); ok {
		return keyed.CacheRef()
	}
	return ""
}

// Fetch returns the cached payload when present, otherwise fetches from the
// wrapped adapter and stores the result.
func (a *CachedAdapter) Fetch(ctx context.Context) ([]byte, error) {
	key := a.keyer.PayloadKey(string(a.Vendor()), a.CacheRef())

	if data, ok, err := a.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	payload, err := a.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	// Best effort: losing the write only costs the next run a refetch.
	storeErr := cache.RetryWithBackoff(ctx, func() error {
		return a.cache.Set(ctx, key, payload, a.ttl)
	})
	if storeErr == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(payload))
	}

	return payload, nil
}

var (
	_ Adapter = (*CachedAdapter)(nil)
	_ Keyed   = (*CachedAdapter)(nil)
)
