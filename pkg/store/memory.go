package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matzehuels/netloom/pkg/errors"
)

// MemoryStore keeps artifacts in memory. Useful for tests and dry runs
// where nothing should touch disk.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data     []byte
	modified time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Write stores a copy of data under name.
func (s *MemoryStore) Write(ctx context.Context, name string, data []byte) error {
	if err := errors.ValidateArtifactName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	s.entries[name] = memoryEntry{data: buf, modified: time.Now()}
	return nil
}

// List returns metadata for all stored artifacts, sorted by name.
func (s *MemoryStore) List(ctx context.Context) ([]Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artifacts := make([]Artifact, 0, len(s.entries))
	for name, entry := range s.entries {
		artifacts = append(artifacts, Artifact{
			Name:     name,
			Size:     int64(len(entry.data)),
			Modified: entry.modified,
		})
	}
	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })
	return artifacts, nil
}

// Close does nothing for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}

// Get returns the stored payload for name. Tests use this to assert on
// artifact contents without going through a filesystem.
func (s *MemoryStore) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	buf := make([]byte, len(entry.data))
	copy(buf, entry.data)
	return buf, true
}

var _ Store = (*MemoryStore)(nil)
