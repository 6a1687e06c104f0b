package render

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// =============================================================================
// Scene Renderer - 3D Front-End JSON
// =============================================================================

// Connection defaults. The front-end expects every connection fully
// attributed; link telemetry (state, negotiated speed) is not part of the
// canonical model, so the renderer fills the schema with these values.
const (
	sceneStatusActive     = "active"
	sceneProtocolWifi     = "wifi"
	sceneProtocolEthernet = "ethernet"
	sceneBandwidthDefault = "1G"
)

type sceneDocument struct {
	Models      []sceneModel      `json:"models"`
	Connections []sceneConnection `json:"connections"`
	Metadata    topology.Metadata `json:"metadata"`
}

// sceneModel carries the renderable attributes of one node. Position is
// mandatory and always three-dimensional; 2D layouts surface with z=0.
type sceneModel struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	Kind     string            `json:"kind,omitempty"`
	Vendor   topology.Vendor   `json:"vendor,omitempty"`
	Model    string            `json:"model,omitempty"`
	IP       string            `json:"ip,omitempty"`
	MAC      string            `json:"mac,omitempty"`
	Status   string            `json:"status,omitempty"`
	Position topology.Position `json:"position"`
}

type sceneConnection struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Status    string `json:"status"`
	Protocol  string `json:"protocol"`
	Bandwidth string `json:"bandwidth"`
}

// Scene renders the 3D-scene JSON consumed by the rendering front-end.
// Connection ids are auto-generated as "c"+index.
func Scene(topo *topology.Topology, positions map[string]topology.Position, _ Options) ([]byte, error) {
	if err := checkTopology(FormatScene, topo); err != nil {
		return nil, err
	}
	if err := checkPositions(FormatScene, topo, positions); err != nil {
		return nil, err
	}

	doc := sceneDocument{
		Models:      make([]sceneModel, len(topo.Nodes)),
		Connections: make([]sceneConnection, len(topo.Edges)),
		Metadata:    topo.Metadata,
	}

	for i := range topo.Nodes {
		n := &topo.Nodes[i]
		doc.Models[i] = sceneModel{
			ID:       n.ID,
			Name:     n.Name,
			Kind:     n.Kind,
			Vendor:   n.Vendor,
			Model:    n.Model,
			IP:       n.IP,
			MAC:      n.MAC,
			Status:   n.Status,
			Position: positions[n.ID],
		}
	}

	for i, e := range topo.Edges {
		doc.Connections[i] = sceneConnection{
			ID:        fmt.Sprintf("c%d", i),
			From:      e.From,
			To:        e.To,
			Status:    sceneStatusActive,
			Protocol:  sceneProtocol(e.Type),
			Bandwidth: sceneBandwidthDefault,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s: encode", FormatScene)
	}
	return data, nil
}

// sceneProtocol maps a connection type to the front-end's protocol
// vocabulary: wireless links ride wifi, everything else ethernet.
func sceneProtocol(edgeType string) string {
	if edgeType == topology.EdgeWireless {
		return sceneProtocolWifi
	}
	return sceneProtocolEthernet
}
