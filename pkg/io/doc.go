// Package io provides JSON import and export for topology snapshots.
//
// # Overview
//
// CLI stages hand topologies to each other through snapshot files: assemble
// writes one, render, preview, and inspect read one. The snapshot is the
// canonical Topology structure serialized as-is, designed for:
//
//   - Round-trip preservation: assemble, export, re-import identically
//   - Hand authoring: a nodes/edges skeleton without metadata imports cleanly
//   - Diffing between runs, since field order and indentation are stable
//
// # Snapshot Format
//
// The format has one required top-level array and two optional members:
//
//	{
//	  "nodes": [
//	    {"id": "sw-1", "name": "core-switch", "kind": "switch"},
//	    {"id": "ap-2", "kind": "ap"}
//	  ],
//	  "edges": [
//	    {"from": "sw-1", "to": "ap-2", "type": "wired"}
//	  ],
//	  "metadata": {
//	    "run_id": "8c2f…",
//	    "generated_at": "2025-06-01T12:00:00Z",
//	    "node_count": 2,
//	    "link_count": 1
//	  }
//	}
//
// Node and edge fields follow the topology package exactly. Layout positions
// are never part of a snapshot; they are recomputed per render request.
//
// # Import
//
// Use [ImportJSON] to read a snapshot from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	topo, err := io.ImportJSON("topology.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate shape and structure: the nodes array must be
// present, node ids must be valid and unique, edges must reference present
// nodes, and metadata counts must match the arrays. When the metadata block
// is absent entirely the counts are backfilled, so hand-written skeletons
// stay importable. ImportJSON additionally requires a .json extension.
//
// # Export
//
// Use [ExportJSON] to write a snapshot to a file, or [WriteJSON] to write
// to any io.Writer:
//
//	err := io.ExportJSON(topo, "topology.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// ExportJSON writes atomically: the snapshot lands under a temporary name
// in the target directory first and is renamed into place, so a concurrent
// reader never observes a half-written file.
package io
