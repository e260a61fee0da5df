package index

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory vector store for development and testing.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemoryStore creates a new in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
	}
}

// Upsert stores documents, updating existing ones by ID.
func (s *MemoryStore) Upsert(ctx context.Context, collection string, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]Document)
		s.collections[collection] = coll
	}
	for _, doc := range docs {
		coll[doc.ID] = doc
	}
	return nil
}

// Search finds documents similar to the given embedding using brute-force
// cosine similarity.
func (s *MemoryStore) Search(ctx context.Context, collection string, embedding []float64, topK int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[collection]
	results := make([]SearchResult, 0, len(coll))
	for _, doc := range coll {
		if len(doc.Embedding) > 0 {
			results = append(results, SearchResult{Document: doc, Score: CosineSimilarity(embedding, doc.Embedding)})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// Close is a no-op for in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Count returns the number of documents in a collection.
func (s *MemoryStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}
