package docstore

import (
	"context"
	"sync"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
)

// InMemoryStore is a thread-safe, map-backed DocStore for tests and
// single-process development setups.
type InMemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]*schema.Document
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{chunks: make(map[string]*schema.Document)}
}

// Add stores chunks keyed by chunk ID.
func (s *InMemoryStore) Add(ctx context.Context, chunks []*schema.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		c := *chunk
		s.chunks[chunk.ID] = &c
	}
	return nil
}

// Get returns the chunks found for the given IDs; missing IDs are skipped.
func (s *InMemoryStore) Get(ctx context.Context, ids []string) (map[string]*schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]*schema.Document, len(ids))
	for _, id := range ids {
		if chunk, ok := s.chunks[id]; ok {
			c := *chunk
			result[id] = &c
		}
	}
	return result, nil
}

// DeleteByDocument removes every chunk belonging to the given document.
func (s *InMemoryStore) DeleteByDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			delete(s.chunks, id)
		}
	}
	return nil
}

var _ interfaces.DocStore = (*InMemoryStore)(nil)
