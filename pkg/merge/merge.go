// Package merge combines canonical per-source batches into one Topology.
//
// Nodes that represent the same physical device across sources share a
// canonical id and are merged into a single Node; edges are validated against
// the merged node set. The merge is deterministic: the same ordered batch
// list always produces byte-identical node and edge arrays, which is what
// makes the downstream exports reproducible.
package merge

import (
	"slices"

	"github.com/matzehuels/netloom/pkg/source"
	"github.com/matzehuels/netloom/pkg/topology"
)

// Merge combines canonical batches into one Topology.
//
// Batch order is the precedence order: when two batches disagree on a scalar
// attribute of the same node, the earlier batch wins; empty values never
// overwrite present ones. Tags are unioned and serialized sorted. Node order
// in the output is first-seen order (batch order, then record order within a
// batch).
//
// Edges referencing a node id absent after the merge are dropped and counted
// in metadata, never an error. Edges are deliberately not deduplicated: two
// sources reporting the same physical link yield two edges, one per
// observation.
func Merge(batches []source.Batch) *topology.Topology {
	var (
		nodes   []topology.Node
		edges   []topology.Edge
		index   = make(map[string]int) // node id → position in nodes
		merged  = 0
		dropped = 0
	)

	for _, batch := range batches {
		for _, n := range batch.Nodes {
			if n.ID == "" {
				continue
			}
			at, seen := index[n.ID]
			if !seen {
				index[n.ID] = len(nodes)
				nodes = append(nodes, n)
				continue
			}
			mergeNode(&nodes[at], n)
			merged++
		}
	}

	for _, batch := range batches {
		for _, e := range batch.Edges {
			if _, ok := index[e.From]; !ok {
				dropped++
				continue
			}
			if _, ok := index[e.To]; !ok {
				dropped++
				continue
			}
			edges = append(edges, e)
		}
	}

	topo := topology.New(nodes, edges)
	topo.Metadata.MergedNodes = merged
	topo.Metadata.DroppedEdges = dropped
	topo.Metadata.Sources = summarize(batches)
	return topo
}

// mergeNode folds a later observation of the same device into the existing
// node. Existing non-empty scalars win; tags are unioned.
func mergeNode(dst *topology.Node, src topology.Node) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Vendor == "" {
		dst.Vendor = src.Vendor
	}
	if dst.Kind == "" {
		dst.Kind = src.Kind
	}
	if dst.IP == "" {
		dst.IP = src.IP
	}
	if dst.MAC == "" {
		dst.MAC = src.MAC
	}
	if dst.Model == "" {
		dst.Model = src.Model
	}
	if dst.Serial == "" {
		dst.Serial = src.Serial
	}
	if dst.Status == "" {
		dst.Status = src.Status
	}
	dst.Tags = unionTags(dst.Tags, src.Tags)
}

// unionTags merges two tag sets and returns them sorted, so the result is
// identical regardless of observation order.
func unionTags(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		set[t] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// summarize builds the per-source provenance entries from the batch counts.
func summarize(batches []source.Batch) []topology.SourceSummary {
	if len(batches) == 0 {
		return nil
	}
	out := make([]topology.SourceSummary, len(batches))
	for i, b := range batches {
		out[i] = topology.SourceSummary{
			Vendor:  b.Vendor,
			Devices: len(b.Nodes),
			Links:   len(b.Edges),
			Skipped: b.Skipped,
		}
	}
	return out
}
