// Package memory provides an in-memory ports.ScenarioStore, used for
// tests and for embedding without external dependencies.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/sluice/pkg/domain"
)

// Store keeps scenario documents in a map guarded by a mutex.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Save stores a copy of the document under the given name.
func (s *Store) Save(ctx context.Context, name string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = append([]byte(nil), doc...)
	return nil
}

// Load returns a copy of the stored document.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return nil, domain.ErrScenarioNotFound
	}
	return append([]byte(nil), doc...), nil
}

// Delete removes the named document.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
	return nil
}

// List returns the stored names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
