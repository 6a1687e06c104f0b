// Package topology defines the canonical network topology model.
//
// A Topology is the immutable aggregate produced by one assembly run:
// canonical Nodes and Edges merged from every configured source, plus run
// metadata (counts, provenance, generation timestamp). It is the single
// format shared by the merger, the layout engine, the export renderers, and
// the snapshot IO layer.
//
// The format is human-readable and designed for round-trip fidelity:
// assemble → export → re-import produces identical results.
package topology

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/netloom/pkg/errors"
)

// =============================================================================
// Vendor - Source Family Tag
// =============================================================================

// Vendor identifies the source family a record originated from.
type Vendor string

// Known source families. The set is open: adapters registered under other
// tags flow through the pipeline unchanged.
const (
	VendorFabric    Vendor = "fabric"
	VendorDashboard Vendor = "dashboard"
)

// =============================================================================
// Node - One Physical or Logical Device
// =============================================================================

// Node is the canonical representation of one device in the merged topology.
//
// ID is globally unique within a Topology after merge and stable across
// re-runs when the source identity (serial, mac) is stable. All attributes
// besides ID are optional and serialized sparsely.
type Node struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Vendor Vendor   `json:"vendor,omitempty"`
	Kind   string   `json:"kind,omitempty"`
	IP     string   `json:"ip,omitempty"`
	MAC    string   `json:"mac,omitempty"`
	Model  string   `json:"model,omitempty"`
	Serial string   `json:"serial,omitempty"`
	Status string   `json:"status,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// DisplayLabel returns the name if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// =============================================================================
// Edge - One Connection Between Two Nodes
// =============================================================================

// Edge represents one reported connection between two Nodes.
//
// Edges are deliberately not deduplicated: the same physical link reported
// by two sources appears twice, once per observation. Downstream consumers
// rely on one edge per report.
type Edge struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Type  string   `json:"type,omitempty"`
	Ports []string `json:"ports,omitempty"`
}

// Connection type classifications.
const (
	EdgeWired    = "wired"
	EdgeWireless = "wireless"
	EdgeUplink   = "uplink"
)

// =============================================================================
// Topology - Immutable Assembly Result
// =============================================================================

// Topology is the aggregate of one assembly run. It is constructed fresh on
// every run, never mutated afterwards, and consumed read-only by the layout
// engine and the export renderers.
type Topology struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries run provenance and the recoverable-error counters
// aggregated during collection and merge.
type Metadata struct {
	RunID        string          `json:"run_id,omitempty"`
	GeneratedAt  time.Time       `json:"generated_at"`
	NodeCount    int             `json:"node_count"`
	LinkCount    int             `json:"link_count"`
	MergedNodes  int             `json:"merged_nodes,omitempty"`
	DroppedEdges int             `json:"dropped_edges,omitempty"`
	Sources      []SourceSummary `json:"sources,omitempty"`
}

// SourceSummary records one source's contribution to the run.
// A failed source contributes zero devices and links but stays listed so a
// smaller-than-expected topology is diagnosable from the artifact alone.
type SourceSummary struct {
	Vendor  Vendor `json:"vendor"`
	Devices int    `json:"devices"`
	Links   int    `json:"links"`
	Skipped int    `json:"skipped,omitempty"`
	Failed  bool   `json:"failed,omitempty"`
	Error   string `json:"error,omitempty"`
}

// New creates a Topology over the given nodes and edges with fresh run
// metadata (UUID run id, UTC timestamp, counts).
func New(nodes []Node, edges []Edge) *Topology {
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	return &Topology{
		Nodes: nodes,
		Edges: edges,
		Metadata: Metadata{
			RunID:       uuid.NewString(),
			GeneratedAt: time.Now().UTC(),
			NodeCount:   len(nodes),
			LinkCount:   len(edges),
		},
	}
}

// Node returns the node with the given id, if present.
func (t *Topology) Node(id string) (*Node, bool) {
	for i := range t.Nodes {
		if t.Nodes[i].ID == id {
			return &t.Nodes[i], true
		}
	}
	return nil, false
}

// Empty reports whether the topology has no nodes.
func (t *Topology) Empty() bool {
	return len(t.Nodes) == 0
}

// Validate checks the structural invariants: every node id is valid and
// unique, every edge endpoint references a present node, and the metadata
// counts match the arrays.
func (t *Topology) Validate() error {
	seen := make(map[string]struct{}, len(t.Nodes))
	for _, n := range t.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidNode, "duplicate node id: %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}

	for _, e := range t.Edges {
		if _, ok := seen[e.From]; !ok {
			return errors.New(errors.ErrCodeUnresolvedEndpoint, "edge references unknown node: %q", e.From)
		}
		if _, ok := seen[e.To]; !ok {
			return errors.New(errors.ErrCodeUnresolvedEndpoint, "edge references unknown node: %q", e.To)
		}
	}

	if t.Metadata.NodeCount != len(t.Nodes) {
		return errors.New(errors.ErrCodeInvalidInput, "metadata node_count = %d, have %d nodes", t.Metadata.NodeCount, len(t.Nodes))
	}
	if t.Metadata.LinkCount != len(t.Edges) {
		return errors.New(errors.ErrCodeInvalidInput, "metadata link_count = %d, have %d edges", t.Metadata.LinkCount, len(t.Edges))
	}

	return nil
}

// Unmarshal deserializes JSON bytes to a Topology.
func Unmarshal(data []byte) (*Topology, error) {
	var t Topology
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode topology")
	}
	return &t, nil
}

// =============================================================================
// Position - Per-Node Layout Coordinate
// =============================================================================

// Position is a per-node coordinate computed by the layout engine. Positions
// are produced fresh per render request and never persisted as node state;
// 2D strategies leave Z at zero.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}
