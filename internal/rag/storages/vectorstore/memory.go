package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
)

// MemoryStore is an in-memory VectorStore with exact (brute-force) cosine
// search. It backs tests and single-process development setups where a Milvus
// deployment is not available. Reads run concurrently; an upsert batch
// becomes visible atomically.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*schema.Document
	dim     int
}

// NewMemoryStore creates an empty in-memory store for vectors of the given
// dimensionality.
func NewMemoryStore(dim int) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*schema.Document),
		dim:     dim,
	}
}

// Upsert inserts or replaces chunks keyed by chunk ID. A dimensionality
// mismatch fails the whole batch before anything is written.
func (s *MemoryStore) Upsert(ctx context.Context, chunks []*schema.Document) error {
	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dim {
			return fmt.Errorf("chunk %s: embedding dimension mismatch: want %d, got %d",
				chunk.ID, s.dim, len(chunk.Embedding))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		c := *chunk
		s.entries[chunk.ID] = &c
	}
	return nil
}

// Search returns at most topK chunks in ascending cosine-distance order.
// Ties break on chunk ID so results are deterministic for a given state.
func (s *MemoryStore) Search(ctx context.Context, vector []float32, topK int) ([]*schema.Document, error) {
	if len(vector) != s.dim {
		return nil, fmt.Errorf("query embedding dimension mismatch: want %d, got %d", s.dim, len(vector))
	}
	if topK <= 0 {
		return []*schema.Document{}, nil
	}

	s.mu.RLock()
	candidates := make([]*schema.Document, 0, len(s.entries))
	for _, entry := range s.entries {
		if len(entry.Embedding) != s.dim {
			// Never surface a mismatched vector.
			continue
		}
		doc := *entry
		doc.Distance = cosineDistance(vector, entry.Embedding)
		candidates = append(candidates, &doc)
	}
	s.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].ID < candidates[j].ID
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

// DeleteByDocument removes every chunk belonging to the given document.
func (s *MemoryStore) DeleteByDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		if entry.DocumentID == documentID {
			delete(s.entries, id)
		}
	}
	return nil
}

// cosineDistance computes 1 - cosine similarity. Zero-norm vectors are
// treated as maximally distant.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// compile-time check to ensure MemoryStore implements the VectorStore interface
var _ interfaces.VectorStore = (*MemoryStore)(nil)
