package source

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/matzehuels/netloom/pkg/cache"
	"github.com/matzehuels/netloom/pkg/observability"
	"github.com/matzehuels/netloom/pkg/topology"
)

// fakeCache is an in-memory Cache with scriptable failures. When failSets
// is zero a configured setErr fails every attempt; otherwise only the first
// failSets attempts fail.
type fakeCache struct {
	entries  map[string][]byte
	getErr   error
	setErr   error
	failSets int
	sets     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.sets++
	if c.setErr != nil && (c.failSets == 0 || c.sets <= c.failSets) {
		return c.setErr
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) Close() error { return nil }

// countingAdapter wraps an adapter and counts fetches.
type countingAdapter struct {
	inner   Adapter
	fetches int
}

func (a *countingAdapter) Vendor() topology.Vendor { return a.inner.Vendor() }

func (a *countingAdapter) Fetch(ctx context.Context) ([]byte, error) {
	a.fetches++
	return a.inner.Fetch(ctx)
}

// countingCacheHooks records cache hook events.
type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestCachedAdapterMissThenHit(t *testing.T) {
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	inner := &countingAdapter{inner: NewStaticAdapter(topology.VendorFabric, []byte(`{"devices": []}`))}
	fc := newFakeCache()
	a := NewCachedAdapter(inner, fc, nil, 0)

	ctx := context.Background()

	// First fetch misses and stores.
	data, err := a.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != `{"devices": []}` {
		t.Errorf("payload = %q, want fixture", data)
	}
	if inner.fetches != 1 {
		t.Errorf("inner fetches = %d, want 1", inner.fetches)
	}
	if fc.sets != 1 {
		t.Errorf("cache sets = %d, want 1", fc.sets)
	}

	// Second fetch hits and skips the inner adapter.
	if _, err := a.Fetch(ctx); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if inner.fetches != 1 {
		t.Errorf("inner fetches after hit = %d, want 1", inner.fetches)
	}

	if hooks.misses != 1 || hooks.hits != 1 || hooks.sets != 1 {
		t.Errorf("hook events = %d misses, %d hits, %d sets; want 1, 1, 1",
			hooks.misses, hooks.hits, hooks.sets)
	}
}

func TestCachedAdapterGetErrorDegradesToMiss(t *testing.T) {
	inner := &countingAdapter{inner: NewStaticAdapter(topology.VendorFabric, []byte("payload"))}
	fc := newFakeCache()
	fc.getErr = stderrors.New("backend down")
	a := NewCachedAdapter(inner, fc, nil, 0)

	data, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("payload = %q, want %q", data, "payload")
	}
	if inner.fetches != 1 {
		t.Errorf("inner fetches = %d, want 1", inner.fetches)
	}
}

func TestCachedAdapterSetErrorIsSwallowed(t *testing.T) {
	inner := &countingAdapter{inner: NewStaticAdapter(topology.VendorFabric, []byte("payload"))}
	fc := newFakeCache()
	fc.setErr = stderrors.New("disk full")
	a := NewCachedAdapter(inner, fc, nil, 0)

	if _, err := a.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed on cache store error: %v", err)
	}
	// Non-retryable store errors get exactly one attempt.
	if fc.sets != 1 {
		t.Errorf("cache sets = %d, want 1", fc.sets)
	}
}

func TestCachedAdapterRetriesRetryableStores(t *testing.T) {
	inner := &countingAdapter{inner: NewStaticAdapter(topology.VendorFabric, []byte("payload"))}
	fc := newFakeCache()
	// Fail the first store attempt with a retryable error, succeed after.
	fc.setErr = cache.Retryable(stderrors.New("connection reset"))
	fc.failSets = 1
	a := NewCachedAdapter(inner, fc, nil, 0)

	if _, err := a.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed on cache store error: %v", err)
	}
	if fc.sets != 2 {
		t.Errorf("cache sets = %d, want 2 attempts", fc.sets)
	}
	if _, ok := fc.entries[cache.NewDefaultKeyer().PayloadKey("fabric", "")]; !ok {
		t.Error("payload missing from cache after successful retry")
	}
}

func TestCachedAdapterInnerErrorPropagates(t *testing.T) {
	fetchErr := stderrors.New("api down")
	inner := &StaticAdapter{Tag: topology.VendorFabric, Err: fetchErr}
	fc := newFakeCache()
	a := NewCachedAdapter(inner, fc, nil, 0)

	_, err := a.Fetch(context.Background())
	if !stderrors.Is(err, fetchErr) {
		t.Fatalf("Fetch error = %v, want %v", err, fetchErr)
	}
	if len(fc.entries) != 0 {
		t.Error("failed fetch left a cache entry behind")
	}
}

func TestCachedAdapterKeysPerVendorAndRef(t *testing.T) {
	fc := newFakeCache()
	ctx := context.Background()

	a1 := NewCachedAdapter(NewStaticAdapter("fabric", []byte("one")), fc, nil, 0)
	a2 := NewCachedAdapter(NewStaticAdapter("dashboard", []byte("two")), fc, nil, 0)

	if _, err := a1.Fetch(ctx); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := a2.Fetch(ctx); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(fc.entries) != 2 {
		t.Errorf("cache entries = %d, want 2 (vendors must not share keys)", len(fc.entries))
	}
}

func TestCachedAdapterPassesThroughIdentity(t *testing.T) {
	path := writePayload(t, "fabric.json", `{}`)
	inner, err := NewFileAdapter(topology.VendorFabric, path)
	if err != nil {
		t.Fatalf("NewFileAdapter: %v", err)
	}

	a := NewCachedAdapter(inner, newFakeCache(), nil, 0)
	if a.Vendor() != topology.VendorFabric {
		t.Errorf("Vendor() = %s, want fabric", a.Vendor())
	}
	if a.CacheRef() != path {
		t.Errorf("CacheRef() = %s, want %s", a.CacheRef(), path)
	}

	// Adapters without a payload ref key on the vendor alone.
	plain := NewCachedAdapter(NewStaticAdapter("fabric", nil), newFakeCache(), nil, 0)
	if plain.CacheRef() != "" {
		t.Errorf("CacheRef() = %q, want empty for unkeyed adapter", plain.CacheRef())
	}
}
