package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// payloadExtensions are the document formats the file adapter accepts.
var payloadExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// FileAdapter reads a recorded source payload from disk. It serves offline
// captures and test fixtures; live adapters with real fetch mechanics are
// implemented by consumers against the Adapter interface.
type FileAdapter struct {
	vendor topology.Vendor
	path   string
}

// NewFileAdapter creates a file-backed adapter for the given vendor tag.
// The path must point at a JSON or YAML document.
func NewFileAdapter(vendor topology.Vendor, path string) (*FileAdapter, error) {
	if err := errors.ValidateVendorTag(string(vendor)); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !payloadExtensions[ext] {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported payload extension %q (want .json, .yaml or .yml)", ext)
	}
	return &FileAdapter{vendor: vendor, path: path}, nil
}

// Vendor returns the source family tag.
func (a *FileAdapter) Vendor() topology.Vendor { return a.vendor }

// CacheRef identifies the payload by its path for the caching wrapper.
func (a *FileAdapter) CacheRef() string { return a.path }

// Fetch reads the payload file.
func (a *FileAdapter) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "payload file %s", a.path)
		}
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read payload file %s", a.path)
	}
	return data, nil
}
