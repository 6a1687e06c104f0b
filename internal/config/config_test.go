package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/layout"
)

const minimalConfig = `
[[sources]]
vendor = "fabric"
path = "fabric.json"
`

const fullConfig = `
[pipeline]
layout = "hierarchical"
group_by = "vendor"
include_details = false
color_code = false
write_artifacts = false
fetch_timeout = "45s"
formats = ["json", "scene"]

[pipeline.output_names]
json = "net.json"

[[sources]]
vendor = "fabric"
path = "exports/fabric.json"

[[sources]]
vendor = "dashboard"
path = "exports/dashboard.json"

[store]
backend = "s3"

[store.s3]
bucket = "topologies"
prefix = "prod"
region = "eu-central-1"

[cache]
backend = "redis"
ttl = "5m"

[cache.redis]
addr = "localhost:6379"
db = 2
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Pipeline.Layout != "grid" {
		t.Errorf("Layout = %q, want grid", cfg.Pipeline.Layout)
	}
	if cfg.Pipeline.GroupBy != "kind" {
		t.Errorf("GroupBy = %q, want kind", cfg.Pipeline.GroupBy)
	}
	if !*cfg.Pipeline.IncludeDetails || !*cfg.Pipeline.ColorCode || !*cfg.Pipeline.WriteArtifacts {
		t.Error("bool options should default to true")
	}
	if cfg.Pipeline.FetchTimeout.Duration != 30*time.Second {
		t.Errorf("FetchTimeout = %v, want 30s", cfg.Pipeline.FetchTimeout.Duration)
	}
	if len(cfg.Pipeline.Formats) != 4 {
		t.Errorf("Formats = %v, want the four primary formats", cfg.Pipeline.Formats)
	}
	if cfg.Sources[0].Type != "file" {
		t.Errorf("source Type = %q, want file", cfg.Sources[0].Type)
	}
	if cfg.Store.Backend != "fs" || cfg.Store.FS.Dir != "." {
		t.Errorf("store defaults = %q %q, want fs .", cfg.Store.Backend, cfg.Store.FS.Dir)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("cache backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestParseFullDocument(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Pipeline.Layout != "hierarchical" {
		t.Errorf("Layout = %q, want hierarchical", cfg.Pipeline.Layout)
	}
	if *cfg.Pipeline.IncludeDetails {
		t.Error("include_details = false should survive defaulting")
	}
	if cfg.Pipeline.FetchTimeout.Duration != 45*time.Second {
		t.Errorf("FetchTimeout = %v, want 45s", cfg.Pipeline.FetchTimeout.Duration)
	}
	if got := cfg.Pipeline.OutputNames["json"]; got != "net.json" {
		t.Errorf("OutputNames[json] = %q, want net.json", got)
	}
	if len(cfg.Sources) != 2 || cfg.Sources[0].Vendor != "fabric" || cfg.Sources[1].Vendor != "dashboard" {
		t.Errorf("sources = %+v, want fabric then dashboard", cfg.Sources)
	}
	if cfg.Store.S3.Bucket != "topologies" || cfg.Store.S3.Region != "eu-central-1" {
		t.Errorf("s3 = %+v", cfg.Store.S3)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Cache.TTL.Duration != 5*time.Minute {
		t.Errorf("cache TTL = %v, want 5m", cfg.Cache.TTL.Duration)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown layout", `
[pipeline]
layout = "force"
[[sources]]
vendor = "fabric"
path = "f.json"
`},
		{"unknown group mode", `
[pipeline]
group_by = "color"
[[sources]]
vendor = "fabric"
path = "f.json"
`},
		{"unknown format", `
[pipeline]
formats = ["pdf"]
[[sources]]
vendor = "fabric"
path = "f.json"
`},
		{"unknown vendor", `
[[sources]]
vendor = "meraki"
path = "m.json"
`},
		{"missing sources", `
[pipeline]
layout = "grid"
`},
		{"missing source path", `
[[sources]]
vendor = "fabric"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse() should reject document")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}

func TestValidateCrossFieldChecks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"s3 without bucket", `
[[sources]]
vendor = "fabric"
path = "f.json"
[store]
backend = "s3"
`, "s3.bucket"},
		{"mongo without uri", `
[[sources]]
vendor = "fabric"
path = "f.json"
[store]
backend = "mongo"
`, "mongo.uri"},
		{"redis without addr", `
[[sources]]
vendor = "fabric"
path = "f.json"
[cache]
backend = "redis"
`, "redis.addr"},
		{"duplicate source", `
[[sources]]
vendor = "fabric"
path = "f.json"
[[sources]]
vendor = "fabric"
path = "f.json"
`, "duplicate source"},
		{"bad output name", `
[pipeline.output_names]
json = "../topology.json"
[[sources]]
vendor = "fabric"
path = "f.json"
`, "output_names"},
		{"unknown output format key", `
[pipeline.output_names]
pdf = "topology.pdf"
[[sources]]
vendor = "fabric"
path = "f.json"
`, "output_names key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse() should reject document")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseRejectsMalformedTOML(t *testing.T) {
	_, err := Parse([]byte("[pipeline\nlayout ="))
	if err == nil {
		t.Fatal("Parse() should reject malformed TOML")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(minimalConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if len(cfg.Sources) != 1 {
		t.Errorf("sources = %d, want 1", len(cfg.Sources))
	}

	if _, err := LoadFromPath(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("LoadFromPath() should fail for a missing file")
	}
}

func TestFindPathHonorsEnv(t *testing.T) {
	t.Setenv("NETLOOM_CONFIG", "/tmp/custom.toml")
	if got := FindPath(); got != "/tmp/custom.toml" {
		t.Errorf("FindPath() = %q, want env override", got)
	}
}

func TestPipelineOptionsMapping(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts := cfg.PipelineOptions()
	if opts.Layout != layout.StrategyHierarchical {
		t.Errorf("Layout = %q, want hierarchical", opts.Layout)
	}
	if opts.GroupBy != "vendor" {
		t.Errorf("GroupBy = %q, want vendor", opts.GroupBy)
	}
	if opts.IncludeDetails || opts.ColorCode || opts.WriteArtifacts {
		t.Error("bool options should map through as false")
	}
	if opts.FetchTimeout != 45*time.Second {
		t.Errorf("FetchTimeout = %v, want 45s", opts.FetchTimeout)
	}
	if len(opts.Formats) != 2 {
		t.Errorf("Formats = %v, want 2 entries", opts.Formats)
	}
	if got := opts.OutputName("json"); got != "net.json" {
		t.Errorf("OutputName(json) = %q, want net.json", got)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("mapped options should validate: %v", err)
	}
}

func TestAdaptersPreserveOrder(t *testing.T) {
	dir := t.TempDir()
	fabric := filepath.Join(dir, "fabric.json")
	dashboard := filepath.Join(dir, "dashboard.json")
	for _, p := range []string{fabric, dashboard} {
		if err := os.WriteFile(p, []byte(`{"results":[]}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := Parse([]byte(`
[[sources]]
vendor = "dashboard"
path = "` + dashboard + `"
[[sources]]
vendor = "fabric"
path = "` + fabric + `"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	adapters, err := cfg.Adapters()
	if err != nil {
		t.Fatalf("Adapters() error = %v", err)
	}
	if len(adapters) != 2 {
		t.Fatalf("adapters = %d, want 2", len(adapters))
	}
	if adapters[0].Vendor() != "dashboard" || adapters[1].Vendor() != "fabric" {
		t.Errorf("adapter order = %v, %v; want dashboard then fabric", adapters[0].Vendor(), adapters[1].Vendor())
	}
}

func TestOpenStoreMemory(t *testing.T) {
	cfg, err := Parse([]byte(`
[[sources]]
vendor = "fabric"
path = "f.json"
[store]
backend = "memory"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	st, err := cfg.OpenStore(context.Background())
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	if st == nil {
		t.Fatal("OpenStore() returned nil store")
	}
}

func TestOpenCacheNull(t *testing.T) {
	cfg, err := Parse([]byte(`
[[sources]]
vendor = "fabric"
path = "f.json"
[cache]
backend = "null"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	c, err := cfg.OpenCache(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	if c == nil {
		t.Fatal("OpenCache() returned nil cache")
	}
}
