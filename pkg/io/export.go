package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// WriteJSON encodes a topology snapshot and writes it to w.
// The output is indented, field-order stable, and can be re-imported with
// [ReadJSON] for round-trip processing.
func WriteJSON(t *topology.Topology, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return nil
}

// ExportJSON writes a topology snapshot to a file at path.
//
// The write is atomic: the snapshot is written to a temporary file in the
// target directory and renamed into place, so readers never observe a
// partially written snapshot.
func ExportJSON(t *topology.Topology, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create snapshot dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".netloom-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create temp snapshot")
	}
	tmpPath := tmp.Name()

	if err := WriteJSON(t, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(errors.ErrCodeStore, err, "close temp snapshot")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(errors.ErrCodeStore, err, "rename snapshot to %s", path)
	}
	return nil
}
