// Package source defines the contract between the assembly pipeline and its
// per-vendor data sources.
//
// An Adapter produces one vendor's payload in that source's native shape; a
// Canonicalizer maps the payload into canonical topology records. The two
// concerns are split so fetch mechanics (HTTP, auth, retries) stay outside
// the core: the in-tree adapters read files or memory, and live adapters are
// implemented by consumers against the same interface.
//
// Each known source family registers exactly one Canonicalizer, keyed by its
// vendor tag. Payload shapes are modeled as explicit structs per family and
// unrecognized documents are rejected, never duck-typed.
package source

import (
	"context"
	"encoding/json"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// =============================================================================
// Adapter - Payload Acquisition
// =============================================================================

// Adapter fetches one vendor's raw payload.
//
// Fetch must honor context cancellation: the pipeline runs adapters
// concurrently under a per-adapter timeout and treats an expired context as
// a failed source, never a failed run.
type Adapter interface {
	// Vendor returns the source family tag for this adapter.
	Vendor() topology.Vendor
	// Fetch returns the source's native payload bytes.
	Fetch(ctx context.Context) ([]byte, error)
}

// Keyed is implemented by adapters whose payload identity is finer than the
// vendor tag (e.g. a file path). The caching wrapper uses it to keep two
// adapters of the same family from sharing one cache entry.
type Keyed interface {
	// CacheRef returns a stable identifier for the payload this adapter serves.
	CacheRef() string
}

// =============================================================================
// Canonicalizer - Payload Normalization
// =============================================================================

// Batch holds the canonical records extracted from one source payload.
type Batch struct {
	Vendor  topology.Vendor
	Nodes   []topology.Node
	Edges   []topology.Edge
	Skipped int // records dropped for lacking an identifier or endpoint
}

// Canonicalizer maps one source family's native payload into canonical
// Node/Edge records. Implementations are pure transforms: no IO, no logging,
// no shared state; the skip counter rides on the returned Batch.
type Canonicalizer interface {
	// Vendor returns the source family tag this canonicalizer handles.
	Vendor() topology.Vendor
	// Canonicalize decodes the payload and returns the canonical batch.
	// Unrecognized document shapes fail with MALFORMED_SOURCE.
	Canonicalize(payload []byte) (*Batch, error)
}

// families is the registry of known source families.
var families = map[topology.Vendor]Canonicalizer{
	topology.VendorFabric:    &fabricCanonicalizer{},
	topology.VendorDashboard: &dashboardCanonicalizer{},
}

// CanonicalizerFor returns the canonicalizer registered for a vendor tag.
func CanonicalizerFor(vendor topology.Vendor) (Canonicalizer, error) {
	c, ok := families[vendor]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidVendor, "no canonicalizer registered for vendor %q", vendor)
	}
	return c, nil
}

// Vendors returns the registered family tags in sorted order.
func Vendors() []topology.Vendor {
	out := make([]topology.Vendor, 0, len(families))
	for v := range families {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// =============================================================================
// Shared Decoding Helpers
// =============================================================================

// decode unmarshals a payload document that may be JSON or YAML. Live
// sources speak JSON; recorded fixtures are often YAML, and JSON is a YAML
// subset, so the JSON path is only a fast path.
func decode(payload []byte, v any) error {
	if json.Valid(payload) {
		return json.Unmarshal(payload, v)
	}
	return yaml.Unmarshal(payload, v)
}

// firstNonEmpty returns the first non-empty candidate, or "".
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// appendPorts unions port labels into dst, preserving first-seen order and
// dropping exact duplicates and empties.
func appendPorts(dst []string, labels ...string) []string {
	for _, label := range labels {
		if label == "" {
			continue
		}
		exists := false
		for _, have := range dst {
			if have == label {
				exists = true
				break
			}
		}
		if !exists {
			dst = append(dst, label)
		}
	}
	return dst
}
