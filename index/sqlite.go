package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"
)

// IndexFileName is the SQLite file kept inside each domain/subject index
// directory.
const IndexFileName = "index.db"

// SQLiteStore is a file-backed vector store. One database lives per
// (domain, subject) directory; collections partition rows within it.
// Similarity search is brute force over the collection, which is adequate
// for per-subject corpus sizes.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the index database inside dir.
// It satisfies the Opener signature.
func OpenSQLiteStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, IndexFileName))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (collection, id)
		)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Upsert stores documents, updating existing ones by (collection, id).
func (s *SQLiteStore) Upsert(ctx context.Context, collection string, docs []Document) error {
	for _, doc := range docs {
		embedding, err := json.Marshal(doc.Embedding)
		if err != nil {
			return fmt.Errorf("marshal embedding: %w", err)
		}
		metadata, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO chunks (collection, id, content, embedding, metadata)
			VALUES (?, ?, ?, ?, ?)`,
			collection, doc.ID, doc.Content, string(embedding), string(metadata),
		)
		if err != nil {
			return fmt.Errorf("upsert chunk %q: %w", doc.ID, err)
		}
	}
	return nil
}

// Search scans the collection and returns the topK most similar documents.
func (s *SQLiteStore) Search(ctx context.Context, collection string, embedding []float64, topK int) ([]SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, embedding, metadata FROM chunks WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var doc Document
		var embeddingJSON, metadataJSON string
		if err := rows.Scan(&doc.ID, &doc.Content, &embeddingJSON, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(embeddingJSON), &doc.Embedding); err != nil {
			return nil, fmt.Errorf("unmarshal embedding: %w", err)
		}
		if metadataJSON != "" {
			json.Unmarshal([]byte(metadataJSON), &doc.Metadata)
		}
		if len(doc.Embedding) == 0 {
			continue
		}
		results = append(results, SearchResult{Document: doc, Score: CosineSimilarity(embedding, doc.Embedding)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// Close closes the database file.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
