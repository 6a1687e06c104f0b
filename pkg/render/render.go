// Package render turns a topology plus layout positions into the downstream
// interchange formats.
//
// Every renderer is a pure function (topology, positions, options) → bytes:
// no IO, no shared state, and never a partial document. The four primary
// formats are the canonical graph JSON, graph-interchange XML (GraphML), the
// diagram-editor XML cell model, and the 3D-scene JSON; a DOT renderer with a
// Graphviz SVG sink exists for quick local previews.
//
// Formats are exact output contracts for downstream front-ends. A renderer
// that cannot serialize its input fails with RENDER_ERROR naming the format
// and the offending field, and that failure is scoped to the one artifact.
package render

import (
	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// =============================================================================
// Formats - Closed Registry
// =============================================================================

// Output format names.
const (
	FormatJSON    = "json"    // canonical graph JSON
	FormatGraphML = "graphml" // graph-interchange XML
	FormatDiagram = "diagram" // diagram-editor XML cell model
	FormatScene   = "scene"   // 3D-scene JSON
	FormatDOT     = "dot"     // Graphviz DOT preview
)

// Renderer is a pure function producing one output format. Renderers that do
// not use positions (json, graphml, dot) accept and ignore them so every
// format shares one contract.
type Renderer func(topo *topology.Topology, positions map[string]topology.Position, opts Options) ([]byte, error)

// renderers is the format registry.
var renderers = map[string]Renderer{
	FormatJSON:    JSON,
	FormatGraphML: GraphML,
	FormatDiagram: Diagram,
	FormatScene:   Scene,
	FormatDOT:     DOT,
}

// Formats returns the primary export formats in their conventional order.
// The DOT preview is addressable through RendererFor but is not part of the
// default artifact set.
func Formats() []string {
	return []string{FormatJSON, FormatGraphML, FormatDiagram, FormatScene}
}

// RendererFor returns the renderer registered for a format name.
func RendererFor(format string) (Renderer, error) {
	r, ok := renderers[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %q (supported: json, graphml, diagram, scene, dot)", format)
	}
	return r, nil
}

// ValidateFormats checks that every requested format is registered.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := RendererFor(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Node grouping modes for formats that carry a group field.
const (
	GroupByKind   = "kind"
	GroupByVendor = "vendor"
	GroupByNone   = "none"
)

// Options tunes renderer output. The zero value renders ungrouped, plain
// documents without descriptive attributes.
type Options struct {
	// GroupBy adds a per-node group attribute valued by kind or vendor;
	// "none" or empty omits it.
	GroupBy string

	// IncludeDetails controls the descriptive attributes (model, serial,
	// mac, status, tags). When false they are dropped from node objects
	// and diagram labels; identity and addressing fields always remain.
	IncludeDetails bool

	// ColorCode selects per-kind vertex styles and per-type edge styles in
	// the diagram-editor document instead of the plain defaults.
	ColorCode bool
}

// group returns the group attribute value for a node, or "" when grouping is
// off.
func (o Options) group(n *topology.Node) string {
	switch o.GroupBy {
	case GroupByKind:
		return n.Kind
	case GroupByVendor:
		return string(n.Vendor)
	default:
		return ""
	}
}

// =============================================================================
// Shared Validation
// =============================================================================

// renderErr builds the RENDER_ERROR for one format naming the offending
// field, keeping the typed detail available through errors.As.
func renderErr(renderer, field, message string) error {
	return errors.Wrap(errors.ErrCodeRender, &errors.RenderFieldError{
		Renderer: renderer,
		Field:    field,
		Message:  message,
	}, "render %s", renderer)
}

// checkTopology validates the invariants every renderer relies on. Upstream
// merge guarantees these; a violation means the caller bypassed the pipeline.
func checkTopology(renderer string, topo *topology.Topology) error {
	if topo == nil {
		return renderErr(renderer, "topology", "topology is nil")
	}
	for i := range topo.Nodes {
		if topo.Nodes[i].ID == "" {
			return renderErr(renderer, "node.id", "node id is empty")
		}
	}
	return nil
}

// checkPositions validates that every node has a layout position, for the
// renderers that embed geometry.
func checkPositions(renderer string, topo *topology.Topology, positions map[string]topology.Position) error {
	for i := range topo.Nodes {
		if _, ok := positions[topo.Nodes[i].ID]; !ok {
			return renderErr(renderer, "node.position", "no position for node "+topo.Nodes[i].ID)
		}
	}
	return nil
}
