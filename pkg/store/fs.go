package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/netloom/pkg/errors"
)

// FileStore writes artifacts into a local directory. It is the default
// backend for CLI runs.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create output dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Write persists data as a file named name inside the store directory.
func (s *FileStore) Write(ctx context.Context, name string, data []byte) error {
	if err := errors.ValidateArtifactName(name); err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write artifact %s", name)
	}
	return nil
}

// List returns metadata for every regular file in the store directory.
// os.ReadDir sorts by filename, which matches the contract's order.
func (s *FileStore) List(ctx context.Context) ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read output dir")
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if errors.ValidateArtifactName(entry.Name()) != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	return artifacts, nil
}

// Close does nothing for the file backend.
func (s *FileStore) Close() error {
	return nil
}

// Path returns the directory artifacts are written to.
func (s *FileStore) Path() string {
	return s.dir
}

var _ Store = (*FileStore)(nil)
