package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/layout"
	"github.com/matzehuels/netloom/pkg/render"
	"github.com/matzehuels/netloom/pkg/source"
	"github.com/matzehuels/netloom/pkg/store"
	"github.com/matzehuels/netloom/pkg/topology"
)

const fabricPayload = `{
	"devices": [
		{"serial": "FGT60F-1", "name": "edge-fw", "ip": "10.0.0.1", "model": "FGT60F", "role": "gateway"},
		{"serial": "S108EN-1", "name": "lab-sw", "ip": "10.0.0.2", "model": "FSW-108E", "role": "switch"}
	],
	"links": [
		{"source": "FGT60F-1", "target": "S108EN-1", "type": "wired", "interface": "port1"}
	]
}`

const dashboardPayload = `{
	"devices": [
		{"serial": "S108EN-1", "name": "lab-sw", "lanIp": "10.0.0.2", "model": "MS120-8", "productType": "switch", "tags": ["lab"]},
		{"serial": "Q2PD-1", "name": "lab-ap", "lanIp": "10.0.0.3", "model": "MR36", "productType": "wireless"}
	],
	"links": [
		{"source": "S108EN-1", "target": "Q2PD-1", "type": "wireless"}
	]
}`

func testAdapters() []source.Adapter {
	return []source.Adapter{
		source.NewStaticAdapter(topology.VendorFabric, []byte(fabricPayload)),
		source.NewStaticAdapter(topology.VendorDashboard, []byte(dashboardPayload)),
	}
}

// failingAdapter simulates an unreachable source.
type failingAdapter struct {
	vendor topology.Vendor
}

func (a *failingAdapter) Vendor() topology.Vendor { return a.vendor }
func (a *failingAdapter) Fetch(ctx context.Context) ([]byte, error) {
	return nil, context.DeadlineExceeded
}

// countingAdapter records whether Fetch ran.
type countingAdapter struct {
	vendor  topology.Vendor
	payload []byte
	fetched bool
}

func (a *countingAdapter) Vendor() topology.Vendor { return a.vendor }
func (a *countingAdapter) Fetch(ctx context.Context) ([]byte, error) {
	a.fetched = true
	return a.payload, nil
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate, got %v", err)
	}

	if opts.Layout != layout.DefaultStrategy {
		t.Errorf("Layout = %q, want default %q", opts.Layout, layout.DefaultStrategy)
	}
	if opts.GroupBy != render.GroupByKind {
		t.Errorf("GroupBy = %q, want %q", opts.GroupBy, render.GroupByKind)
	}
	if len(opts.Formats) != 4 {
		t.Errorf("Formats = %v, want the four primary formats", opts.Formats)
	}
	if opts.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("FetchTimeout = %v, want %v", opts.FetchTimeout, DefaultFetchTimeout)
	}
}

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions()
	if !opts.IncludeDetails {
		t.Error("IncludeDetails should default on")
	}
	if !opts.ColorCode {
		t.Error("ColorCode should default on")
	}
	if !opts.WriteArtifacts {
		t.Error("WriteArtifacts should default on")
	}
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	opts := Options{Layout: "force-directed"}
	err := opts.ValidateAndSetDefaults()
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if !errors.Is(err, errors.ErrCodeUnknownStrategy) {
		t.Errorf("error code = %v, want UNKNOWN_LAYOUT_STRATEGY", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "force-directed") {
		t.Errorf("error should name the invalid strategy, got %q", err)
	}
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	opts := Options{Formats: []string{"json", "pdf"}}
	err := opts.ValidateAndSetDefaults()
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestValidateRejectsUnknownGroupMode(t *testing.T) {
	opts := Options{GroupBy: "color"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Fatal("expected error for unknown group mode")
	}
}

func TestOutputName(t *testing.T) {
	opts := NewOptions()
	if got := opts.OutputName(render.FormatScene); got != "topology-scene.json" {
		t.Errorf("OutputName(scene) = %q, want topology-scene.json", got)
	}

	opts.OutputNames[render.FormatScene] = "scene-v2.json"
	if got := opts.OutputName(render.FormatScene); got != "scene-v2.json" {
		t.Errorf("OutputName(scene) = %q, want override scene-v2.json", got)
	}
}

func TestExecuteFullPipeline(t *testing.T) {
	st := store.NewMemoryStore()
	runner := NewRunner(nil, st, nil)
	defer runner.Close()

	opts := Options{WriteArtifacts: true, IncludeDetails: true}
	result, err := runner.Execute(context.Background(), testAdapters(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// The switch is reported by both sources under the same serial, so the
	// merged topology has 3 devices, not 4.
	if got := len(result.Topology.Nodes); got != 3 {
		t.Errorf("got %d nodes, want 3", got)
	}
	if got := len(result.Topology.Edges); got != 2 {
		t.Errorf("got %d edges, want 2", got)
	}
	if result.Degraded() {
		t.Error("run should not be degraded when all sources succeed")
	}

	for _, format := range render.Formats() {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing artifact for format %q", format)
		}
	}

	// All four artifacts written under the default names.
	if _, ok := st.Get("topology.json"); !ok {
		t.Error("topology.json not written to store")
	}
	if _, ok := st.Get("topology-scene.json"); !ok {
		t.Error("topology-scene.json not written to store")
	}
	if len(result.Written) != 4 {
		t.Errorf("Written has %d entries, want 4", len(result.Written))
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
}

func TestExecuteDegradesOnFailedSource(t *testing.T) {
	adapters := []source.Adapter{
		source.NewStaticAdapter(topology.VendorFabric, []byte(fabricPayload)),
		&failingAdapter{vendor: topology.VendorDashboard},
	}

	runner := NewRunner(nil, store.NewMemoryStore(), nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), adapters, Options{WriteArtifacts: true})
	if err != nil {
		t.Fatalf("Execute() should degrade, not fail: %v", err)
	}

	if !result.Degraded() {
		t.Error("run with a failed source should report degraded")
	}
	if got := len(result.Topology.Nodes); got != 2 {
		t.Errorf("got %d nodes from the surviving source, want 2", got)
	}

	// The failed source stays listed in the provenance metadata.
	var found bool
	for _, s := range result.Topology.Metadata.Sources {
		if s.Vendor == topology.VendorDashboard {
			found = true
			if !s.Failed {
				t.Error("dashboard summary should be flagged failed")
			}
			if s.Devices != 0 {
				t.Errorf("failed source contributed %d devices, want 0", s.Devices)
			}
		}
	}
	if !found {
		t.Error("failed source missing from metadata sources")
	}

	// A degraded run still yields the full artifact set.
	for _, format := range render.Formats() {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("degraded run missing artifact %q", format)
		}
	}
}

func TestExecuteFailsFastOnInvalidStrategy(t *testing.T) {
	adapter := &countingAdapter{vendor: topology.VendorFabric, payload: []byte(fabricPayload)}

	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), []source.Adapter{adapter}, Options{Layout: "spiral"})
	if err == nil {
		t.Fatal("expected error for invalid strategy")
	}
	if adapter.fetched {
		t.Error("invalid strategy must fail before any adapter runs")
	}
}

func TestAssembleRequiresAdapters(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Assemble(context.Background(), nil, Options{}); err == nil {
		t.Fatal("expected error when no adapters are configured")
	}
}

func TestRenderIsolatesFormatFailures(t *testing.T) {
	// A topology violating referential integrity (built by hand, bypassing
	// merge) makes the diagram renderer fail while the other formats still
	// render.
	topo := topology.New(
		[]topology.Node{{ID: "a", Name: "A"}},
		[]topology.Edge{{From: "a", To: "missing"}},
	)

	runner := NewRunner(nil, store.NewMemoryStore(), nil)
	defer runner.Close()

	result, err := runner.Render(context.Background(), topo, Options{WriteArtifacts: true})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if _, failed := result.Errors[render.FormatDiagram]; !failed {
		t.Error("diagram render should have failed on the dangling edge")
	}
	if !errors.Is(result.Errors[render.FormatDiagram], errors.ErrCodeRender) {
		t.Errorf("diagram error code = %v, want RENDER_ERROR", errors.GetCode(result.Errors[render.FormatDiagram]))
	}

	// The other three formats rendered and were written.
	for _, format := range []string{render.FormatJSON, render.FormatGraphML, render.FormatScene} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("format %q should have rendered despite the diagram failure", format)
		}
		if _, ok := result.Written[format]; !ok {
			t.Errorf("format %q should have been written despite the diagram failure", format)
		}
	}
	if _, ok := result.Written[render.FormatDiagram]; ok {
		t.Error("failed diagram artifact must not be written")
	}
}

func TestRenderWithoutWriting(t *testing.T) {
	st := store.NewMemoryStore()
	runner := NewRunner(nil, st, nil)
	defer runner.Close()

	result, err := runner.Assemble(context.Background(), testAdapters(), Options{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	rr, err := runner.Render(context.Background(), result.Topology, Options{WriteArtifacts: false})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(rr.Artifacts) != 4 {
		t.Errorf("got %d artifacts, want 4", len(rr.Artifacts))
	}

	artifacts, err := st.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(artifacts) != 0 {
		t.Errorf("store has %d artifacts, want none without WriteArtifacts", len(artifacts))
	}
}

func TestRenderPositionsAlwaysThreeDimensional(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Assemble(context.Background(), testAdapters(), Options{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	rr, err := runner.Render(context.Background(), result.Topology, Options{Layout: layout.StrategyGrid})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for id, pos := range rr.Positions {
		if pos.Z != 0 {
			t.Errorf("grid layout position for %s has z = %v, want 0", id, pos.Z)
		}
	}
}
