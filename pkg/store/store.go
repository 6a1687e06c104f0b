// Package store persists rendered topology artifacts.
//
// A Store receives the named byte blobs produced by the render stage and
// keeps them somewhere durable. Implementations for different backends:
//   - fs: Local directory for CLI runs (the default)
//   - memory: In-memory storage for tests and dry runs
//   - s3: S3 bucket for shared or automated pipelines
//   - mongo: MongoDB collection when artifacts live next to other run data
//
// # Usage
//
// Create a store and hand it to the pipeline runner:
//
//	st, err := store.NewFileStore("./out")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	st.Write(ctx, "topology.json", data)
//
// Artifact names are flat: no path separators, no traversal. Every backend
// rejects invalid names before touching the underlying medium.
package store

import (
	"context"
	"time"
)

// Artifact describes a stored artifact without its payload.
type Artifact struct {
	Name     string
	Size     int64
	Modified time.Time
}

// Store is the interface for artifact persistence backends.
type Store interface {
	// Write persists data under name, replacing any previous artifact
	// with the same name.
	Write(ctx context.Context, name string, data []byte) error

	// List returns metadata for all stored artifacts, sorted by name.
	List(ctx context.Context) ([]Artifact, error)

	// Close releases backend resources.
	Close() error
}
