package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

func sampleTopology() *topology.Topology {
	return topology.New(
		[]topology.Node{
			{ID: "gw-1", Name: "edge-gateway", Kind: topology.KindGateway, Tags: []string{"fabric"}},
			{ID: "sw-1", Name: "core-switch", Kind: topology.KindSwitch},
			{ID: "ap-1", Kind: topology.KindAccessPoint},
		},
		[]topology.Edge{
			{From: "gw-1", To: "sw-1", Type: topology.EdgeWired},
			{From: "sw-1", To: "ap-1", Type: topology.EdgeWired, Ports: []string{"port5"}},
		},
	)
}

func TestRoundTrip(t *testing.T) {
	orig := sampleTopology()

	var buf bytes.Buffer
	if err := WriteJSON(orig, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if len(got.Nodes) != len(orig.Nodes) {
		t.Fatalf("round-trip nodes = %d, want %d", len(got.Nodes), len(orig.Nodes))
	}
	for i, n := range got.Nodes {
		if n.ID != orig.Nodes[i].ID {
			t.Errorf("node %d id = %s, want %s", i, n.ID, orig.Nodes[i].ID)
		}
	}
	if len(got.Edges) != len(orig.Edges) {
		t.Fatalf("round-trip edges = %d, want %d", len(got.Edges), len(orig.Edges))
	}
	if got.Edges[1].Ports[0] != "port5" {
		t.Errorf("edge ports = %v, want [port5]", got.Edges[1].Ports)
	}
	if got.Metadata.RunID != orig.Metadata.RunID {
		t.Errorf("run id = %s, want %s", got.Metadata.RunID, orig.Metadata.RunID)
	}
}

func TestReadJSONBareSkeleton(t *testing.T) {
	input := `{
		"nodes": [{"id": "a"}, {"id": "b"}],
		"edges": [{"from": "a", "to": "b"}]
	}`

	got, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Metadata.NodeCount != 2 {
		t.Errorf("backfilled node_count = %d, want 2", got.Metadata.NodeCount)
	}
	if got.Metadata.LinkCount != 1 {
		t.Errorf("backfilled link_count = %d, want 1", got.Metadata.LinkCount)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{
			name:  "malformed json",
			input: `{"nodes": [`,
			code:  errors.ErrCodeInvalidInput,
		},
		{
			name:  "missing nodes array",
			input: `{"edges": []}`,
			code:  errors.ErrCodeInvalidInput,
		},
		{
			name:  "duplicate node id",
			input: `{"nodes": [{"id": "a"}, {"id": "a"}]}`,
			code:  errors.ErrCodeInvalidNode,
		},
		{
			name:  "empty node id",
			input: `{"nodes": [{"id": ""}]}`,
			code:  errors.ErrCodeInvalidNode,
		},
		{
			name:  "dangling edge",
			input: `{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "ghost"}]}`,
			code:  errors.ErrCodeUnresolvedEndpoint,
		},
		{
			name:  "count mismatch",
			input: `{"nodes": [{"id": "a"}], "edges": [], "metadata": {"generated_at": "2025-06-01T12:00:00Z", "node_count": 5, "link_count": 0}}`,
			code:  errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadJSON succeeded, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestExportImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topology.json")

	orig := sampleTopology()
	if err := ExportJSON(orig, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(got.Nodes) != 3 || len(got.Edges) != 2 {
		t.Errorf("imported %d nodes / %d edges, want 3 / 2", len(got.Nodes), len(got.Edges))
	}

	// The atomic write must not leave temp files behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("export left extra files: %v", names)
	}
}

func TestImportJSONRejectsWrongExtension(t *testing.T) {
	_, err := ImportJSON("topology.yaml")
	if err == nil {
		t.Fatal("ImportJSON accepted a .yaml path")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("ImportJSON succeeded for a missing file")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestExportJSONOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.json")

	first := topology.New([]topology.Node{{ID: "a"}}, nil)
	if err := ExportJSON(first, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	second := topology.New([]topology.Node{{ID: "a"}, {ID: "b"}}, nil)
	if err := ExportJSON(second, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(got.Nodes) != 2 {
		t.Errorf("imported %d nodes after overwrite, want 2", len(got.Nodes))
	}
}
