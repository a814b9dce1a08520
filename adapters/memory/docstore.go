// Package memory provides in-memory implementations of storage ports,
// used by tests and by deployments that do not persist documents.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/CBIIT/ccdi-dcc-federation-service/ports"
)

// DocumentStore keeps JSON documents in process memory. Documents are
// stored serialized so callers never share mutable trees through the
// store.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]json.RawMessage)}
}

// Get retrieves a document by id.
func (s *DocumentStore) Get(_ context.Context, id string) (any, error) {
	s.mu.RLock()
	raw, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, ports.ErrNotFound)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %q: %w", id, err)
	}
	return doc, nil
}

// Put stores or replaces a document.
func (s *DocumentStore) Put(_ context.Context, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", id, err)
	}

	s.mu.Lock()
	s.docs[id] = raw
	s.mu.Unlock()
	return nil
}

// List returns all document ids in lexical order.
func (s *DocumentStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids, nil
}
