package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// =============================================================================
// DOT Renderer - Graphviz Preview
// =============================================================================

// dotKindShapes maps node kinds to Graphviz shapes so the preview reads at a
// glance: perimeter devices as diamonds, switches as boxes, radios as ovals.
var dotKindShapes = map[string]string{
	topology.KindGateway:     "diamond",
	topology.KindSwitch:      "box",
	topology.KindAccessPoint: "ellipse",
	topology.KindServer:      "box3d",
	topology.KindCamera:      "ellipse",
	topology.KindSensor:      "ellipse",
	topology.KindPhone:       "ellipse",
	topology.KindInterface:   "note",
	topology.KindDevice:      "box",
}

const dotDefaultShape = "box"

// dotKindFills reuses the diagram palette for --color-coded previews.
var dotKindFills = map[string]string{
	topology.KindGateway:     "#f8cecc",
	topology.KindSwitch:      "#dae8fc",
	topology.KindAccessPoint: "#d5e8d4",
	topology.KindServer:      "#ffe6cc",
	topology.KindCamera:      "#e1d5e7",
	topology.KindSensor:      "#e1d5e7",
	topology.KindPhone:       "#fff2cc",
	topology.KindInterface:   "#f5f5f5",
	topology.KindDevice:      "#ffffff",
}

// DOT renders the topology as an undirected Graphviz document. Graphviz
// computes its own placement, so the layout positions are ignored here; the
// renderer exists as the input half of the SVG preview.
func DOT(topo *topology.Topology, _ map[string]topology.Position, opts Options) ([]byte, error) {
	if err := checkTopology(FormatDOT, topo); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("graph topology {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for i := range topo.Nodes {
		n := &topo.Nodes[i]
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(dotNodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range topo.Edges {
		attrs := dotEdgeAttrs(e.Type)
		if attrs == "" {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.From, e.To, attrs)
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func dotNodeAttrs(n *topology.Node, opts Options) []string {
	shape, ok := dotKindShapes[n.Kind]
	if !ok {
		shape = dotDefaultShape
	}

	attrs := []string{
		fmt.Sprintf("label=%q", dotLabel(n, opts)),
		"shape=" + shape,
	}
	if opts.ColorCode {
		fill, ok := dotKindFills[n.Kind]
		if !ok {
			fill = dotKindFills[topology.KindDevice]
		}
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	return attrs
}

func dotLabel(n *topology.Node, opts Options) string {
	lines := []string{n.DisplayLabel()}
	if n.IP != "" {
		lines = append(lines, n.IP)
	}
	if opts.IncludeDetails && n.Model != "" {
		lines = append(lines, n.Model)
	}
	return strings.Join(lines, "\n")
}

func dotEdgeAttrs(edgeType string) string {
	switch edgeType {
	case topology.EdgeWireless:
		return "style=dashed"
	case topology.EdgeUplink:
		return "penwidth=2"
	default:
		return ""
	}
}

// =============================================================================
// SVG Preview Sink
// =============================================================================

// PreviewSVG rasterizes a DOT document to SVG using Graphviz.
func PreviewSVG(ctx context.Context, dot []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the svg element so the viewBox starts at the
// origin; Graphviz emits translated viewports that confuse some viewers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
