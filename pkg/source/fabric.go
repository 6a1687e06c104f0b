package source

import (
	"strings"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// =============================================================================
// Fabric Family - Security-Fabric Style Payloads
// =============================================================================

// fabricPayload is the native document shape of the fabric-style source:
// a managed security fabric reporting its member devices and inter-device
// links. At least one of the two collection fields must be present for the
// document to be recognized.
type fabricPayload struct {
	Devices *[]fabricDevice `json:"devices" yaml:"devices"`
	Links   *[]fabricLink   `json:"links" yaml:"links"`
}

type fabricDevice struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	IP     string `json:"ip" yaml:"ip"`
	MAC    string `json:"mac" yaml:"mac"`
	Model  string `json:"model" yaml:"model"`
	Serial string `json:"serial" yaml:"serial"`
	Role   string `json:"role" yaml:"role"`
	Status string `json:"status" yaml:"status"`
}

type fabricLink struct {
	Source     string   `json:"source" yaml:"source"`
	Target     string   `json:"target" yaml:"target"`
	Type       string   `json:"type" yaml:"type"`
	Interface  string   `json:"interface" yaml:"interface"`
	Interfaces []string `json:"interfaces" yaml:"interfaces"`
}

// fabricRoleKinds normalizes the fabric's declared role field.
var fabricRoleKinds = map[string]string{
	"gateway":  topology.KindGateway,
	"firewall": topology.KindGateway,
	"router":   topology.KindGateway,
	"switch":   topology.KindSwitch,
	"ap":       topology.KindAccessPoint,
	"wifi":     topology.KindAccessPoint,
	"wireless": topology.KindAccessPoint,
	"server":   topology.KindServer,
	"phone":    topology.KindPhone,
	"camera":   topology.KindCamera,
	"sensor":   topology.KindSensor,
}

// fabricModelKinds maps model-number prefixes to kinds, checked in order
// when no usable role is declared.
var fabricModelKinds = []struct {
	prefix string
	kind   string
}{
	{"FGT", topology.KindGateway},
	{"FWF", topology.KindGateway},
	{"FSW", topology.KindSwitch},
	{"FS", topology.KindSwitch},
	{"FAP", topology.KindAccessPoint},
}

type fabricCanonicalizer struct{}

func (c *fabricCanonicalizer) Vendor() topology.Vendor { return topology.VendorFabric }

// Canonicalize maps a fabric payload into canonical records. Devices missing
// every identifier candidate and links missing an endpoint are skipped and
// counted, never fatal.
func (c *fabricCanonicalizer) Canonicalize(payload []byte) (*Batch, error) {
	var doc fabricPayload
	if err := decode(payload, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedSource, err, "decode fabric payload")
	}
	if doc.Devices == nil && doc.Links == nil {
		return nil, errors.New(errors.ErrCodeMalformedSource, "fabric payload has no devices or links collection")
	}

	batch := &Batch{Vendor: topology.VendorFabric}

	if doc.Devices != nil {
		for _, d := range *doc.Devices {
			id := firstNonEmpty(d.Serial, d.MAC, d.ID, d.Name)
			if id == "" {
				batch.Skipped++
				continue
			}
			batch.Nodes = append(batch.Nodes, topology.Node{
				ID:     id,
				Name:   d.Name,
				Vendor: topology.VendorFabric,
				Kind:   fabricKind(d.Role, d.Model),
				IP:     d.IP,
				MAC:    d.MAC,
				Model:  d.Model,
				Serial: d.Serial,
				Status: d.Status,
			})
		}
	}

	if doc.Links != nil {
		for _, l := range *doc.Links {
			if l.Source == "" || l.Target == "" {
				batch.Skipped++
				continue
			}
			var ports []string
			ports = appendPorts(ports, l.Interface)
			ports = appendPorts(ports, l.Interfaces...)
			batch.Edges = append(batch.Edges, topology.Edge{
				From:  l.Source,
				To:    l.Target,
				Type:  l.Type,
				Ports: ports,
			})
		}
	}

	return batch, nil
}

// fabricKind infers the canonical kind from the declared role, falling back
// to model-prefix matching, then to the generic device kind.
func fabricKind(role, model string) string {
	if kind, ok := fabricRoleKinds[strings.ToLower(strings.TrimSpace(role))]; ok {
		return kind
	}
	upper := strings.ToUpper(strings.TrimSpace(model))
	for _, m := range fabricModelKinds {
		if strings.HasPrefix(upper, m.prefix) {
			return m.kind
		}
	}
	return topology.KindDevice
}
