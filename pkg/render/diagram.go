package render

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/matzehuels/netloom/pkg/topology"
)

// =============================================================================
// Diagram Renderer - Editor Cell Model XML
// =============================================================================

// Vertex cells share one fixed geometry; the layout engine decides placement,
// the renderer only sizes the box.
const (
	diagramCellWidth  = 120
	diagramCellHeight = 60
)

// emptyDiagramLabel is emitted as the sole cell when the topology has no
// nodes, so the artifact always opens as a valid document.
const emptyDiagramLabel = "No topology data available"

// vertexStyle pairs the shape fragment of a cell style with its color
// palette. The palette half is dropped when color coding is disabled.
type vertexStyle struct {
	shape   string
	palette string
}

// diagramKindStyles is the fixed kind→style table for vertex cells.
var diagramKindStyles = map[string]vertexStyle{
	topology.KindGateway:     {"rounded=0;whiteSpace=wrap;html=1;", "fillColor=#f8cecc;strokeColor=#b85450;"},
	topology.KindSwitch:      {"rounded=0;whiteSpace=wrap;html=1;", "fillColor=#dae8fc;strokeColor=#6c8ebf;"},
	topology.KindAccessPoint: {"ellipse;whiteSpace=wrap;html=1;", "fillColor=#d5e8d4;strokeColor=#82b366;"},
	topology.KindServer:      {"rounded=0;whiteSpace=wrap;html=1;", "fillColor=#ffe6cc;strokeColor=#d79b00;"},
	topology.KindCamera:      {"ellipse;whiteSpace=wrap;html=1;", "fillColor=#e1d5e7;strokeColor=#9673a6;"},
	topology.KindSensor:      {"ellipse;whiteSpace=wrap;html=1;", "fillColor=#e1d5e7;strokeColor=#9673a6;"},
	topology.KindPhone:       {"rounded=1;whiteSpace=wrap;html=1;", "fillColor=#fff2cc;strokeColor=#d6b656;"},
	topology.KindInterface:   {"rounded=1;whiteSpace=wrap;html=1;", "fillColor=#f5f5f5;strokeColor=#666666;"},
	topology.KindDevice:      {"rounded=0;whiteSpace=wrap;html=1;", "fillColor=#ffffff;strokeColor=#000000;"},
}

// diagramTypeStyles is the fixed type→style table for edge cells.
var diagramTypeStyles = map[string]string{
	topology.EdgeWired:    "edgeStyle=orthogonalEdgeStyle;rounded=0;html=1;",
	topology.EdgeWireless: "edgeStyle=orthogonalEdgeStyle;rounded=0;html=1;dashed=1;",
	topology.EdgeUplink:   "edgeStyle=orthogonalEdgeStyle;rounded=0;html=1;strokeWidth=2;",
}

const diagramDefaultEdgeStyle = "edgeStyle=orthogonalEdgeStyle;rounded=0;html=1;"

type diagramDocument struct {
	XMLName xml.Name    `xml:"mxGraphModel"`
	Root    diagramRoot `xml:"root"`
}

type diagramRoot struct {
	Cells []diagramCell `xml:"mxCell"`
}

// diagramCell models both vertex and edge cells; editors distinguish them by
// the vertex/edge marker attributes.
type diagramCell struct {
	ID       string           `xml:"id,attr"`
	Value    string           `xml:"value,attr,omitempty"`
	Style    string           `xml:"style,attr,omitempty"`
	Vertex   string           `xml:"vertex,attr,omitempty"`
	Edge     string           `xml:"edge,attr,omitempty"`
	Parent   string           `xml:"parent,attr,omitempty"`
	Source   string           `xml:"source,attr,omitempty"`
	Target   string           `xml:"target,attr,omitempty"`
	Geometry *diagramGeometry `xml:"mxGeometry"`
}

// diagramGeometry uses string-typed coordinates so that an explicit zero
// survives marshalling while absent attributes stay absent.
type diagramGeometry struct {
	X        string `xml:"x,attr,omitempty"`
	Y        string `xml:"y,attr,omitempty"`
	Width    string `xml:"width,attr,omitempty"`
	Height   string `xml:"height,attr,omitempty"`
	Relative string `xml:"relative,attr,omitempty"`
	As       string `xml:"as,attr"`
}

// Diagram renders the diagram-editor XML cell model. Cells 0 and 1 are the
// editor's anchor cells; vertex cells are numbered from 2 in node order, edge
// cells continue the sequence.
func Diagram(topo *topology.Topology, positions map[string]topology.Position, opts Options) ([]byte, error) {
	if err := checkTopology(FormatDiagram, topo); err != nil {
		return nil, err
	}
	if topo.Empty() {
		return marshalXML(FormatDiagram, emptyDiagramDocument())
	}
	if err := checkPositions(FormatDiagram, topo, positions); err != nil {
		return nil, err
	}

	cells := make([]diagramCell, 0, len(topo.Nodes)+len(topo.Edges)+2)
	cells = append(cells,
		diagramCell{ID: "0"},
		diagramCell{ID: "1", Parent: "0"},
	)

	nextID := 2
	cellIDs := make(map[string]string, len(topo.Nodes))

	for i := range topo.Nodes {
		n := &topo.Nodes[i]
		pos := positions[n.ID]
		id := strconv.Itoa(nextID)
		nextID++
		cellIDs[n.ID] = id

		cells = append(cells, diagramCell{
			ID:     id,
			Value:  diagramLabel(n, opts),
			Style:  diagramVertexStyle(n.Kind, opts.ColorCode),
			Vertex: "1",
			Parent: "1",
			Geometry: &diagramGeometry{
				X:      formatCoord(pos.X),
				Y:      formatCoord(pos.Y),
				Width:  strconv.Itoa(diagramCellWidth),
				Height: strconv.Itoa(diagramCellHeight),
				As:     "geometry",
			},
		})
	}

	for _, e := range topo.Edges {
		src, ok := cellIDs[e.From]
		if !ok {
			return nil, renderErr(FormatDiagram, "edge.from", "edge references unknown node "+strconv.Quote(e.From))
		}
		dst, ok := cellIDs[e.To]
		if !ok {
			return nil, renderErr(FormatDiagram, "edge.to", "edge references unknown node "+strconv.Quote(e.To))
		}

		cells = append(cells, diagramCell{
			ID:       strconv.Itoa(nextID),
			Style:    diagramEdgeStyle(e.Type),
			Edge:     "1",
			Parent:   "1",
			Source:   src,
			Target:   dst,
			Geometry: &diagramGeometry{Relative: "1", As: "geometry"},
		})
		nextID++
	}

	return marshalXML(FormatDiagram, diagramDocument{Root: diagramRoot{Cells: cells}})
}

// emptyDiagramDocument builds the zero-node fallback: the two anchor cells
// plus a single text label.
func emptyDiagramDocument() diagramDocument {
	return diagramDocument{Root: diagramRoot{Cells: []diagramCell{
		{ID: "0"},
		{ID: "1", Parent: "0"},
		{
			ID:     "2",
			Value:  emptyDiagramLabel,
			Style:  "text;html=1;align=center;verticalAlign=middle;",
			Vertex: "1",
			Parent: "1",
			Geometry: &diagramGeometry{
				X:      "0",
				Y:      "0",
				Width:  "240",
				Height: "40",
				As:     "geometry",
			},
		},
	}}}
}

// diagramLabel builds the multi-line vertex label: display name, then ip,
// then model when details are requested.
func diagramLabel(n *topology.Node, opts Options) string {
	lines := []string{n.DisplayLabel()}
	if n.IP != "" {
		lines = append(lines, n.IP)
	}
	if opts.IncludeDetails && n.Model != "" {
		lines = append(lines, n.Model)
	}
	return strings.Join(lines, "\n")
}

func diagramVertexStyle(kind string, colorCode bool) string {
	style, ok := diagramKindStyles[kind]
	if !ok {
		style = diagramKindStyles[topology.KindDevice]
	}
	if !colorCode {
		return style.shape
	}
	return style.shape + style.palette
}

func diagramEdgeStyle(edgeType string) string {
	if style, ok := diagramTypeStyles[edgeType]; ok {
		return style
	}
	return diagramDefaultEdgeStyle
}

// formatCoord renders a coordinate with the shortest exact representation.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
