package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// graphNS is the GraphML namespace expected by graph-interchange consumers.
const graphNS = "http://graphml.graphdrawing.org/xmlns"

// graphmlDocument is the root element. Exactly one graph element is emitted
// per document; node and edge attributes use the canonical field names so a
// consumer can map them back without a schema.
type graphmlDocument struct {
	XMLName xml.Name     `xml:"graphml"`
	NS      string       `xml:"xmlns,attr"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID     string `xml:"id,attr"`
	Name   string `xml:"name,attr,omitempty"`
	Vendor string `xml:"vendor,attr,omitempty"`
	Kind   string `xml:"kind,attr,omitempty"`
	IP     string `xml:"ip,attr,omitempty"`
	MAC    string `xml:"mac,attr,omitempty"`
	Model  string `xml:"model,attr,omitempty"`
	Serial string `xml:"serial,attr,omitempty"`
	Status string `xml:"status,attr,omitempty"`
	Tags   string `xml:"tags,attr,omitempty"`
	Group  string `xml:"group,attr,omitempty"`
}

type graphmlEdge struct {
	ID     string `xml:"id,attr"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
	Type   string `xml:"type,attr,omitempty"`
	Ports  string `xml:"ports,attr,omitempty"`
}

// GraphML renders the graph-interchange XML document. Edge ids are
// auto-generated as "e"+index; list attributes (tags, ports) are
// comma-joined since XML attributes are scalar.
func GraphML(topo *topology.Topology, _ map[string]topology.Position, opts Options) ([]byte, error) {
	if err := checkTopology(FormatGraphML, topo); err != nil {
		return nil, err
	}

	doc := graphmlDocument{
		NS: graphNS,
		Graph: graphmlGraph{
			ID:          "topology",
			EdgeDefault: "undirected",
			Nodes:       make([]graphmlNode, len(topo.Nodes)),
			Edges:       make([]graphmlEdge, len(topo.Edges)),
		},
	}

	for i := range topo.Nodes {
		n := &topo.Nodes[i]
		gn := graphmlNode{
			ID:     n.ID,
			Name:   n.Name,
			Vendor: string(n.Vendor),
			Kind:   n.Kind,
			IP:     n.IP,
			Group:  opts.group(n),
		}
		if opts.IncludeDetails {
			gn.MAC = n.MAC
			gn.Model = n.Model
			gn.Serial = n.Serial
			gn.Status = n.Status
			gn.Tags = strings.Join(n.Tags, ",")
		}
		doc.Graph.Nodes[i] = gn
	}

	for i, e := range topo.Edges {
		doc.Graph.Edges[i] = graphmlEdge{
			ID:     fmt.Sprintf("e%d", i),
			Source: e.From,
			Target: e.To,
			Type:   e.Type,
			Ports:  strings.Join(e.Ports, ","),
		}
	}

	return marshalXML(FormatGraphML, doc)
}

// marshalXML serializes an XML document with the standard header. The
// element tree is built structurally, so the output stays well-formed even
// for empty graphs and labels containing markup characters.
func marshalXML(renderer string, doc any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s: encode", renderer)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
