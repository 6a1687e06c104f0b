// Package pipeline orchestrates the assembly-and-export pipeline.
//
// One run flows strictly left to right: source adapters are fetched
// concurrently, each payload is canonicalized into per-vendor batches, the
// batches merge into one immutable Topology, the layout engine computes
// per-node positions, and the export renderers produce the requested artifact
// formats, which are written to the artifact store.
//
// # Architecture
//
// The two halves of the pipeline are independent:
//
//  1. Assemble: fetch → canonicalize → merge, producing a Topology
//  2. Render: layout → render → store, producing named artifacts
//
// Each half can be run on its own (the CLI persists the Topology snapshot
// between them) or together through Execute.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, store, logger)
//	opts := pipeline.NewOptions()
//	opts.Layout = "hierarchical"
//	opts.Formats = []string{"json", "scene"}
//	result, err := runner.Execute(ctx, adapters, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	scene := result.Artifacts["scene"]
//
// # Failure Semantics
//
// Source failures degrade, they never abort: a timed-out or unreachable
// source contributes nothing and is flagged in the topology metadata. Render
// failures are scoped to the one artifact; the other formats still render
// and store. Only caller errors (unknown layout strategy, unknown format)
// fail the whole request, and they do so before any work starts.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/layout"
	"github.com/matzehuels/netloom/pkg/render"
	"github.com/matzehuels/netloom/pkg/source"
	"github.com/matzehuels/netloom/pkg/topology"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Embedders
// =============================================================================

// DefaultFetchTimeout bounds each source adapter call.
const DefaultFetchTimeout = source.DefaultFetchTimeout

// Default artifact names, keyed by format.
var DefaultOutputNames = map[string]string{
	render.FormatJSON:    "topology.json",
	render.FormatGraphML: "topology.graphml",
	render.FormatDiagram: "topology-diagram.xml",
	render.FormatScene:   "topology-scene.json",
	render.FormatDOT:     "topology.dot",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. NewOptions returns the documented
// defaults (grid layout, group by kind, details and color coding on, the four
// primary formats written under their default names); the zero value renders
// plain undetailed documents and writes nothing.
type Options struct {
	// Layout selects the positioning strategy (hierarchical, circular,
	// grid). Empty means the layout package default.
	Layout layout.Strategy `json:"layout,omitempty"`

	// LayoutOptions tunes strategy geometry (spacing, columns, radius).
	LayoutOptions layout.Options `json:"layout_options,omitempty"`

	// GroupBy adds a per-node group field to formats that carry one:
	// "kind", "vendor", or "none".
	GroupBy string `json:"group_by,omitempty"`

	// IncludeDetails keeps the descriptive attributes (model, serial, mac,
	// status, tags) in rendered nodes. Identity and addressing fields are
	// always kept.
	IncludeDetails bool `json:"include_details"`

	// ColorCode selects per-kind and per-type styles in the diagram
	// document instead of the plain defaults.
	ColorCode bool `json:"color_code"`

	// Formats lists the artifact formats to render. Empty means the four
	// primary formats.
	Formats []string `json:"formats,omitempty"`

	// WriteArtifacts controls whether rendered artifacts are written to
	// the store. Rendering without writing is useful for previews and
	// dry runs.
	WriteArtifacts bool `json:"write_artifacts"`

	// OutputNames overrides the stored artifact name per format.
	OutputNames map[string]string `json:"output_names,omitempty"`

	// FetchTimeout bounds each source adapter call. Zero means
	// DefaultFetchTimeout.
	FetchTimeout time.Duration `json:"fetch_timeout,omitempty"`

	// Refresh bypasses any payload cache wired into the adapters.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives stage progress. Nil discards.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has run.
	validated bool `json:"-"`
}

// NewOptions returns Options with the documented defaults applied. The
// boolean knobs default on here rather than in SetDefaults, which cannot
// tell an unset bool from an explicit false.
func NewOptions() Options {
	o := Options{
		IncludeDetails: true,
		ColorCode:      true,
		WriteArtifacts: true,
	}
	o.SetDefaults()
	return o
}

// SetDefaults fills unset fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.Layout == "" {
		o.Layout = layout.DefaultStrategy
	}
	if o.GroupBy == "" {
		o.GroupBy = render.GroupByKind
	}
	if len(o.Formats) == 0 {
		o.Formats = render.Formats()
	}
	if o.OutputNames == nil {
		o.OutputNames = map[string]string{}
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and validates the closed sets
// (layout strategy, group mode, formats). It is idempotent and runs before
// any fetch, so an invalid request fails fast.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if !layout.Valid(o.Layout) {
		return errors.New(errors.ErrCodeUnknownStrategy, "unknown layout strategy: %q (supported: hierarchical, circular, grid)", o.Layout)
	}
	switch o.GroupBy {
	case render.GroupByKind, render.GroupByVendor, render.GroupByNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown group mode: %q (supported: kind, vendor, none)", o.GroupBy)
	}
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// RenderOptions projects the pipeline options onto the renderer options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		GroupBy:        o.GroupBy,
		IncludeDetails: o.IncludeDetails,
		ColorCode:      o.ColorCode,
	}
}

// OutputName returns the artifact name for a format, falling back to the
// package defaults, then to "topology.<format>".
func (o *Options) OutputName(format string) string {
	if name, ok := o.OutputNames[format]; ok && name != "" {
		return name
	}
	if name, ok := DefaultOutputNames[format]; ok {
		return name
	}
	return "topology." + format
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// Result holds the outputs of one pipeline run.
type Result struct {
	// Topology is the merged assembly result.
	Topology *topology.Topology

	// Positions maps node ids to layout coordinates.
	Positions map[string]topology.Position

	// Artifacts holds the rendered bytes, keyed by format. A format whose
	// renderer failed is absent here and present in Errors.
	Artifacts map[string][]byte

	// Written maps each stored format to its artifact name.
	Written map[string]string

	// Errors holds per-format render or store failures. The run itself
	// still succeeds when other formats produced artifacts.
	Errors map[string]error

	// Stats carries stage timings and sizes.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SourceCount   int
	FailedSources int
	NodeCount     int
	EdgeCount     int
	FetchTime     time.Duration
	MergeTime     time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
	StoreTime     time.Duration
}

// Degraded reports whether any source failed while others carried the run.
func (r *Result) Degraded() bool {
	return r.Stats.FailedSources > 0
}
