// Package index provides collection-scoped vector storage and similarity
// search over the per-(domain, subject) index directories.
package index

import "context"

// Document represents one embedded chunk.
type Document struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Embedding []float64      `json:"embedding,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// SearchResult represents a search result with similarity score.
type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"` // cosine similarity (0-1)
}

// Store provides vector storage and similarity search within named
// collections. Upserting an existing (collection, id) pair overwrites it,
// which keeps repeated chunk writes idempotent.
type Store interface {
	// Upsert stores documents under a collection, updating existing ones by ID.
	Upsert(ctx context.Context, collection string, docs []Document) error

	// Search returns up to topK documents of the collection most similar to
	// the given embedding, best first, embeddings included.
	Search(ctx context.Context, collection string, embedding []float64, topK int) ([]SearchResult, error)

	// Close releases resources.
	Close() error
}

// Opener maps an index directory to a ready Store. The directory layout
// root/domain/subject is part of the routing contract, so the retrieval
// engine opens stores by directory rather than holding one global handle.
type Opener func(dir string) (Store, error)
