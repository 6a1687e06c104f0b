package render

import (
	"encoding/json"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// jsonDocument is the canonical graph JSON artifact. Edge endpoints are
// renamed source/target, the convention of the node-link front-ends this
// format feeds. Every optional field is sparse: empty values are omitted so
// artifacts stay compact and diff cleanly.
type jsonDocument struct {
	Nodes    []jsonNode        `json:"nodes"`
	Links    []jsonLink        `json:"links"`
	Metadata topology.Metadata `json:"metadata"`
}

type jsonNode struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Vendor string   `json:"vendor,omitempty"`
	Kind   string   `json:"kind,omitempty"`
	IP     string   `json:"ip,omitempty"`
	MAC    string   `json:"mac,omitempty"`
	Model  string   `json:"model,omitempty"`
	Serial string   `json:"serial,omitempty"`
	Status string   `json:"status,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Group  string   `json:"group,omitempty"`
}

type jsonLink struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   string   `json:"type,omitempty"`
	Ports  []string `json:"ports,omitempty"`
}

// JSON renders the canonical graph JSON document. Positions are not
// embedded: this artifact is pure topology, and consumers lay it out
// themselves.
func JSON(topo *topology.Topology, _ map[string]topology.Position, opts Options) ([]byte, error) {
	if err := checkTopology(FormatJSON, topo); err != nil {
		return nil, err
	}

	doc := jsonDocument{
		Nodes:    make([]jsonNode, len(topo.Nodes)),
		Links:    make([]jsonLink, len(topo.Edges)),
		Metadata: topo.Metadata,
	}

	for i := range topo.Nodes {
		n := &topo.Nodes[i]
		jn := jsonNode{
			ID:     n.ID,
			Name:   n.Name,
			Vendor: string(n.Vendor),
			Kind:   n.Kind,
			IP:     n.IP,
			Group:  opts.group(n),
		}
		if opts.IncludeDetails {
			jn.MAC = n.MAC
			jn.Model = n.Model
			jn.Serial = n.Serial
			jn.Status = n.Status
			jn.Tags = n.Tags
		}
		doc.Nodes[i] = jn
	}

	for i, e := range topo.Edges {
		doc.Links[i] = jsonLink{
			Source: e.From,
			Target: e.To,
			Type:   e.Type,
			Ports:  e.Ports,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s: encode", FormatJSON)
	}
	return data, nil
}
