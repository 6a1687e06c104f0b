// Package cache provides payload caching for source adapters.
//
// A Cache is injected into the caching source adapter (never a module-level
// singleton), so a run against slow management APIs can reuse recent payloads
// and tests can substitute a fake. Three backends exist:
//   - file: XDG cache directory, for CLI usage (default)
//   - redis: shared cache for scheduled multi-host assemblies
//   - null: caching disabled
//
// Keys are produced by a Keyer so every backend sees the same namespaced
// sha256 key space; vendor payloads never collide across sources or refs.
package cache

import (
	"context"
	"time"
)

// =============================================================================
// Cache - Backend Contract
// =============================================================================

// Cache is the storage contract shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultPayloadTTL bounds how long a fetched source payload is reused
// before the adapter refetches. Management APIs converge within minutes;
// anything longer risks assembling yesterday's topology.
const DefaultPayloadTTL = 15 * time.Minute

// =============================================================================
// Keyer - Namespaced Key Derivation
// =============================================================================

// Keyer derives cache keys. Implementations must be deterministic: the same
// inputs always produce the same key.
type Keyer interface {
	// PayloadKey returns the key for one source payload, namespaced by the
	// vendor family and the payload ref (file path, API endpoint).
	PayloadKey(vendor, ref string) string
}

// DefaultKeyer hashes key parts with sha256 under a concern prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PayloadKey generates a key of the form "payload:<sha256(vendor, ref)>".
func (k *DefaultKeyer) PayloadKey(vendor, ref string) string {
	return hashKey("payload", vendor, ref)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
