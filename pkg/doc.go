// Package pkg provides the core libraries for Netloom topology assembly.
//
// # Overview
//
// Netloom merges network topology exports from multiple management planes
// (fabric controllers, cloud dashboards) into one deduplicated graph and
// exports it in formats that documentation and visualization tools consume.
// The pkg directory is organized into four main areas:
//
//  1. [topology] - Domain model (nodes, edges, vendors, device kinds)
//  2. [source] / [merge] - Assembly (canonicalize vendor payloads, resolve identity)
//  3. [layout] / [render] - Export (deterministic positions, format writers)
//  4. [pipeline] - Orchestration (fetch → canonicalize → merge → layout → render → store)
//
// # Architecture
//
// The typical data flow through Netloom:
//
//	Fabric/Dashboard export files
//	         ↓
//	    [source] package (fetch + canonicalize per vendor)
//	         ↓
//	    [merge] package (identity resolution, source precedence)
//	         ↓
//	    [layout] package (hierarchical / circular / grid positions)
//	         ↓
//	    [render] package (JSON, GraphML, diagram XML, scene JSON, DOT)
//	         ↓
//	    [store] package (filesystem, S3, MongoDB, memory)
//
// # Quick Start
//
// Assemble two vendor exports and render every default format:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/charmbracelet/log"
//
//	    "github.com/matzehuels/netloom/pkg/cache"
//	    "github.com/matzehuels/netloom/pkg/pipeline"
//	    "github.com/matzehuels/netloom/pkg/source"
//	    "github.com/matzehuels/netloom/pkg/store"
//	    "github.com/matzehuels/netloom/pkg/topology"
//	)
//
//	// 1. Describe where the exports come from.
//	adapters := []source.Adapter{
//	    source.NewFileAdapter(topology.VendorFabric, "fabric.json"),
//	    source.NewFileAdapter(topology.VendorDashboard, "dashboard.json"),
//	}
//
//	// 2. Run the pipeline end to end.
//	runner := pipeline.NewRunner(cache.NewNullCache(), store.NewMemoryStore(), log.New(os.Stderr))
//	defer runner.Close()
//	result, err := runner.Execute(context.Background(), adapters, pipeline.NewOptions())
//
//	// 3. Inspect the outcome.
//	fmt.Printf("%d devices, %d links\n", len(result.Topology.Nodes), len(result.Topology.Edges))
//	for format, name := range result.Written {
//	    fmt.Printf("%s → %s\n", format, name)
//	}
//
// # Main Packages
//
// ## Domain Model
//
// [topology] - Canonical graph types shared by every stage: Node, Edge,
// Topology, vendor tags, device kinds, and the layer ordering used by the
// hierarchical layout.
//
// ## Assembly
//
// [source] - Source adapters and per-vendor canonicalizers. Each vendor
// subformat (fabric controller, cloud dashboard) gets a Canonicalizer that
// maps raw payloads into canonical nodes and edges, skipping malformed
// records instead of failing the batch.
//
// [merge] - Combines canonical batches into one topology. Device identity
// resolves by serial, then MAC, then vendor id; earlier sources win on field
// conflicts and every contributing source is recorded per node.
//
// ## Export
//
// [layout] - Deterministic position assignment. Three strategies
// (hierarchical, circular, grid) that always produce the same coordinates
// for the same topology.
//
// [render] - Format writers: canonical JSON, GraphML, diagram-editor XML,
// 3D scene JSON, and Graphviz DOT with an SVG preview helper.
//
// ## Infrastructure
//
// [pipeline] - Complete assembly-and-export pipeline used by the CLI.
// Failed sources degrade the run instead of aborting it, and per-format
// render errors never block sibling formats.
//
// [store] - Artifact storage backends: FileStore for the CLI (filesystem),
// S3Store and MongoStore for shared deployments, MemoryStore for testing.
//
// [cache] - Source payload caching with file, Redis, and null backends so
// repeated assemblies skip unchanged fetches.
//
// [io] - Topology snapshot import/export, the contract between the assemble
// and render halves of the CLI.
//
// ## Observability
//
// [observability] - Hook interfaces for pipeline, cache, and store events
// with no-op defaults; embedders register implementations at startup.
//
// [metrics] - Prometheus implementation of the observability hooks,
// registering on a caller-supplied registry.
//
// [errors] - Coded errors with user-facing messages, shared by every
// package.
//
// [buildinfo] - Version metadata stamped at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/merge/...      # Specific package
//	go test -run Example         # Examples only
//
// [topology]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/topology
// [source]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/source
// [merge]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/merge
// [layout]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/metrics
// [errors]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/netloom/pkg/buildinfo
package pkg
