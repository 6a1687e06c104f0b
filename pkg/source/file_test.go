package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

func writePayload(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestFileAdapterFetch(t *testing.T) {
	path := writePayload(t, "fabric.json", `{"devices": []}`)

	a, err := NewFileAdapter(topology.VendorFabric, path)
	if err != nil {
		t.Fatalf("NewFileAdapter: %v", err)
	}
	if a.Vendor() != topology.VendorFabric {
		t.Errorf("Vendor() = %s, want fabric", a.Vendor())
	}
	if a.CacheRef() != path {
		t.Errorf("CacheRef() = %s, want %s", a.CacheRef(), path)
	}

	data, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != `{"devices": []}` {
		t.Errorf("Fetch = %q, want payload content", data)
	}
}

func TestFileAdapterAcceptsYAML(t *testing.T) {
	for _, name := range []string{"payload.yaml", "payload.yml", "payload.JSON"} {
		path := writePayload(t, name, "devices: []")
		if _, err := NewFileAdapter(topology.VendorDashboard, path); err != nil {
			t.Errorf("NewFileAdapter(%s): %v", name, err)
		}
	}
}

func TestFileAdapterRejectsUnsupportedExtension(t *testing.T) {
	_, err := NewFileAdapter(topology.VendorFabric, "payload.xml")
	if err == nil {
		t.Fatal("NewFileAdapter accepted .xml")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestFileAdapterRejectsBadVendorTag(t *testing.T) {
	_, err := NewFileAdapter("Not Valid!", "payload.json")
	if err == nil {
		t.Fatal("NewFileAdapter accepted an invalid vendor tag")
	}
	if !errors.Is(err, errors.ErrCodeInvalidVendor) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidVendor)
	}
}

func TestFileAdapterMissingFile(t *testing.T) {
	a, err := NewFileAdapter(topology.VendorFabric, filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("NewFileAdapter: %v", err)
	}

	_, err = a.Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch succeeded for a missing file")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestFileAdapterHonorsCancelledContext(t *testing.T) {
	path := writePayload(t, "fabric.json", `{}`)
	a, err := NewFileAdapter(topology.VendorFabric, path)
	if err != nil {
		t.Fatalf("NewFileAdapter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Fetch(ctx); err == nil {
		t.Error("Fetch succeeded under a cancelled context")
	}
}
