package core

import (
	"errors"
	"fmt"
)

var (
	// ErrIntegrity indicates a registry uniqueness violation: an original
	// name is already bound to a different sanitized name.
	ErrIntegrity = errors.New("registry integrity violated")

	// ErrMetadataParse indicates the metadata normalization capability
	// returned malformed or schema-invalid JSON.
	ErrMetadataParse = errors.New("metadata response is not valid")

	// ErrTranslationParse indicates the query translation capability
	// returned malformed or schema-invalid JSON.
	ErrTranslationParse = errors.New("translation response is not valid")

	// ErrConversion indicates document-to-markdown conversion failed.
	ErrConversion = errors.New("document conversion failed")

	// ErrInvalidStage indicates a stage name outside {converted, embedded}.
	ErrInvalidStage = errors.New("invalid stage name")

	// ErrRoutingMismatch indicates a subquery's domain/subject pair is not
	// part of the current taxonomy. Non-fatal: the subquery is dropped.
	ErrRoutingMismatch = errors.New("subquery outside known taxonomy")
)

// DocumentError wraps a failure while processing a single document. Batch
// drivers catch it at the document boundary and continue with the next file.
type DocumentError struct {
	Op  string
	Doc string
	Err error
}

func (e *DocumentError) Error() string {
	if e.Doc != "" {
		return fmt.Sprintf("%s [doc=%s]: %v", e.Op, e.Doc, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func NewDocumentError(op, doc string, err error) *DocumentError {
	return &DocumentError{Op: op, Doc: doc, Err: err}
}
