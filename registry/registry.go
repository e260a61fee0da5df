// Package registry tracks per-document pipeline progress so conversion and
// embedding can be re-run without redoing finished work.
package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNotFound is returned when no record matches a hash.
var ErrNotFound = errors.New("not found")

// Stage is a boolean milestone in a document's processing lifecycle.
type Stage string

const (
	StageConverted Stage = "converted"
	StageEmbedded  Stage = "embedded"
)

// Valid reports whether s is one of the supported stages. Reset and update
// operations refuse anything else so an uncontrolled field name can never
// reach the storage layer.
func (s Stage) Valid() bool {
	return s == StageConverted || s == StageEmbedded
}

// Record is one row of the registry ledger.
type Record struct {
	ID            int64     `json:"id"`
	OriginalName  string    `json:"original_name"`
	SanitizedName string    `json:"sanitized_name"`
	ContentHash   string    `json:"content_hash"`
	Converted     bool      `json:"converted"`
	Embedded      bool      `json:"embedded"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Registry is the durable ledger keyed by content hash. Implementations must
// serialize concurrent writers at the row level; callers must not run two
// batches over the same document identity concurrently.
type Registry interface {
	// Register upserts a document identity and returns its content hash.
	// Registering the same pair twice refreshes the timestamp only. An
	// original name already bound to a different sanitized name fails with
	// core.ErrIntegrity.
	Register(ctx context.Context, originalName, sanitizedName string) (string, error)

	// MarkStageComplete sets the stage flag. Safe to call repeatedly.
	MarkStageComplete(ctx context.Context, hash string, stage Stage) error

	// IsStageComplete reports whether the stage finished for the hash.
	// Unknown hashes report false.
	IsStageComplete(ctx context.Context, hash string, stage Stage) (bool, error)

	// ResetStage clears the stage flag for one record, or for every record
	// when hash is empty, and returns the number of rows affected. This is
	// the only supported way to force reprocessing.
	ResetStage(ctx context.Context, stage Stage, hash string) (int64, error)

	// List returns a full snapshot of the ledger.
	List(ctx context.Context) ([]Record, error)

	Close() error
}

// ComputeHash derives the identity key for a document from its sanitized
// name. Identity follows the chosen title, not the file bytes: identical
// content under a different title is a distinct document.
func ComputeHash(sanitizedName string) string {
	sum := sha256.Sum256([]byte(sanitizedName))
	return hex.EncodeToString(sum[:])
}
