package server

import (
	"github.com/cerebrumkb/cerebrum/registry"
	"github.com/cerebrumkb/cerebrum/workers"
)

// ChatRequest is a user question.
type ChatRequest struct {
	Text string `json:"text"`
}

// ChatResponse carries the composed answer.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ProcessOneRequest points at a single source document to push through both
// stages.
type ProcessOneRequest struct {
	Path string `json:"path"`
}

// BatchResponse acknowledges a queued background batch.
type BatchResponse struct {
	Message string       `json:"message"`
	Task    workers.Task `json:"task"`
}

// ResetResponse reports how many registry rows a reset touched.
type ResetResponse struct {
	Stage    string `json:"stage"`
	Affected int64  `json:"affected"`
}

// RegistryResponse is the full ledger snapshot.
type RegistryResponse struct {
	Registry []registry.Record `json:"registry"`
}

// ErrorResponse carries a request failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
