package source

import (
	"strings"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// =============================================================================
// Dashboard Family - Cloud-Dashboard Style Payloads
// =============================================================================

// dashboardPayload is the native document shape of the dashboard-style
// source: a cloud-managed inventory keyed by product type, with per-device
// tags and a LAN-scoped address field.
type dashboardPayload struct {
	Devices *[]dashboardDevice `json:"devices" yaml:"devices"`
	Links   *[]dashboardLink   `json:"links" yaml:"links"`
}

type dashboardDevice struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Model       string   `json:"model" yaml:"model"`
	LanIP       string   `json:"lanIp" yaml:"lanIp"`
	MAC         string   `json:"mac" yaml:"mac"`
	Serial      string   `json:"serial" yaml:"serial"`
	Status      string   `json:"status" yaml:"status"`
	Tags        []string `json:"tags" yaml:"tags"`
	ProductType string   `json:"productType" yaml:"productType"`
}

type dashboardLink struct {
	Source     string   `json:"source" yaml:"source"`
	Target     string   `json:"target" yaml:"target"`
	Type       string   `json:"type" yaml:"type"`
	Interface  string   `json:"interface" yaml:"interface"`
	Interfaces []string `json:"interfaces" yaml:"interfaces"`
}

// dashboardProductKinds normalizes the dashboard's productType field.
var dashboardProductKinds = map[string]string{
	"appliance":       topology.KindGateway,
	"cellulargateway": topology.KindGateway,
	"switch":          topology.KindSwitch,
	"wireless":        topology.KindAccessPoint,
	"camera":          topology.KindCamera,
	"sensor":          topology.KindSensor,
	"phone":           topology.KindPhone,
}

// dashboardModelKinds maps model-number prefixes to kinds, checked in order
// when no usable productType is declared.
var dashboardModelKinds = []struct {
	prefix string
	kind   string
}{
	{"MX", topology.KindGateway},
	{"MG", topology.KindGateway},
	{"MS", topology.KindSwitch},
	{"MR", topology.KindAccessPoint},
	{"MV", topology.KindCamera},
	{"MT", topology.KindSensor},
}

type dashboardCanonicalizer struct{}

func (c *dashboardCanonicalizer) Vendor() topology.Vendor { return topology.VendorDashboard }

// Canonicalize maps a dashboard payload into canonical records. Devices
// missing every identifier candidate and links missing an endpoint are
// skipped and counted, never fatal.
func (c *dashboardCanonicalizer) Canonicalize(payload []byte) (*Batch, error) {
	var doc dashboardPayload
	if err := decode(payload, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedSource, err, "decode dashboard payload")
	}
	if doc.Devices == nil && doc.Links == nil {
		return nil, errors.New(errors.ErrCodeMalformedSource, "dashboard payload has no devices or links collection")
	}

	batch := &Batch{Vendor: topology.VendorDashboard}

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
				Vendor: topology.VendorDashboard,
				Kind:   dashboardKind(d.ProductType, d.Model),
				IP:     d.LanIP,
				MAC:    d.MAC,
				Model:  d.Model,
				Serial: d.Serial,
				Status: d.Status,
				Tags:   cleanTags(d.Tags),
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

// dashboardKind infers the canonical kind from productType, falling back to
// model-prefix matching, then to the generic device kind.
func dashboardKind(productType, model string) string {
	if kind, ok := dashboardProductKinds[strings.ToLower(strings.TrimSpace(productType))]; ok {
		return kind
	}
	upper := strings.ToUpper(strings.TrimSpace(model))
	for _, m := range dashboardModelKinds {
		if strings.HasPrefix(upper, m.prefix) {
			return m.kind
		}
	}
	return topology.KindDevice
}

// cleanTags trims and drops empty tag entries, preserving order.
func cleanTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
