package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgio "github.com/matzehuels/netloom/pkg/io"
)

const cliFabricPayload = `{
	"devices": [
		{"serial": "FGT100F-1", "name": "core-fw", "ip": "10.1.0.1", "model": "FGT100F", "role": "gateway"},
		{"serial": "FSW124E-1", "name": "core-sw", "ip": "10.1.0.2", "model": "FSW-124E", "role": "switch"}
	],
	"links": [
		{"source": "FGT100F-1", "target": "FSW124E-1", "type": "wired", "interface": "port1"}
	]
}`

const cliDashboardPayload = `{
	"devices": [
		{"serial": "FSW124E-1", "name": "core-sw", "lanIp": "10.1.0.2", "model": "MS225-24", "productType": "switch"},
		{"serial": "MR46-1", "name": "office-ap", "lanIp": "10.1.0.3", "model": "MR46", "productType": "wireless"}
	],
	"links": [
		{"source": "FSW124E-1", "target": "MR46-1", "type": "wireless"}
	]
}`

// writeTestConfig lays out payload files, an artifact directory, and a config
// pointing NETLOOM_CONFIG at them. It returns the temp root.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"fabric.json":    cliFabricPayload,
		"dashboard.json": cliDashboardPayload,
	}
	for name, payload := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(payload), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	doc := `
[[sources]]
vendor = "fabric"
path = "` + filepath.Join(dir, "fabric.json") + `"

[[sources]]
vendor = "dashboard"
path = "` + filepath.Join(dir, "dashboard.json") + `"

[store]
backend = "fs"

[store.fs]
dir = "` + filepath.Join(dir, "artifacts") + `"

[cache]
backend = "null"
`
	cfgPath := filepath.Join(dir, "netloom.toml")
	if err := os.WriteFile(cfgPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NETLOOM_CONFIG", cfgPath)
	return dir
}

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	root := newTestCLI().RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := []string{"assemble", "render", "preview", "inspect", "sources", "artifacts", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestAssembleCommand(t *testing.T) {
	dir := writeTestConfig(t)
	snapshot := filepath.Join(dir, "topology.json")

	if err := runCommand(t, "assemble", "-o", snapshot, "--no-cache"); err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	topo, err := pkgio.ImportJSON(snapshot)
	if err != nil {
		t.Fatalf("snapshot import failed: %v", err)
	}
	if len(topo.Nodes) != 3 {
		t.Errorf("snapshot nodes = %d, want 3 (switch deduplicated)", len(topo.Nodes))
	}
	if len(topo.Edges) != 2 {
		t.Errorf("snapshot edges = %d, want 2", len(topo.Edges))
	}
	if len(topo.Metadata.Sources) != 2 {
		t.Errorf("snapshot sources = %d, want 2", len(topo.Metadata.Sources))
	}
}

func TestAssembleCommandMissingConfig(t *testing.T) {
	t.Setenv("NETLOOM_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	if err := runCommand(t, "assemble", "--no-cache"); err == nil {
		t.Fatal("assemble should fail without a config file")
	}
}

func TestRenderCommandWritesArtifacts(t *testing.T) {
	dir := writeTestConfig(t)
	snapshot := filepath.Join(dir, "topology.json")
	if err := runCommand(t, "assemble", "-o", snapshot, "--no-cache"); err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	out := filepath.Join(dir, "rendered")
	if err := runCommand(t, "render", snapshot, "-o", out, "-f", "json,graphml"); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, name := range []string{"topology.json", "topology.graphml"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected artifact %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "topology-scene.json")); err == nil {
		t.Error("scene artifact should not exist for -f json,graphml")
	}
}

func TestRenderCommandRejectsUnknownLayout(t *testing.T) {
	dir := writeTestConfig(t)
	snapshot := filepath.Join(dir, "topology.json")
	if err := runCommand(t, "assemble", "-o", snapshot, "--no-cache"); err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	err := runCommand(t, "render", snapshot, "-o", filepath.Join(dir, "out"), "-l", "force-directed")
	if err == nil {
		t.Fatal("render should reject an unknown layout strategy")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty means caller default", "", nil},
		{"single format", "scene", []string{"scene"}},
		{"multiple formats", "json,graphml,scene", []string{"json", "graphml", "scene"}},
		{"whitespace trimmed", " json , scene ", []string{"json", "scene"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, "—"},
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-72 * time.Hour), "3d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelativeTime(tt.t); got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}
