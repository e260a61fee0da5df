package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cerebrumkb/cerebrum/core"
)

// sanitizeMetadata asks the generation capability to normalize a document's
// name and metadata. The response must be strict JSON matching
// core.SanitizedMetadata; anything else fails the document with
// core.ErrMetadataParse.
func (p *Pipeline) sanitizeMetadata(ctx context.Context, filename string, raw map[string]string) (*core.SanitizedMetadata, error) {
	response, err := p.client.Generate(ctx, p.chatModel, renderSanitizePrompt(filename, raw))
	if err != nil {
		return nil, fmt.Errorf("sanitize %q: %w", filename, err)
	}
	return parseSanitizedMetadata(response)
}

func parseSanitizedMetadata(response string) (*core.SanitizedMetadata, error) {
	var meta core.SanitizedMetadata
	if err := json.Unmarshal([]byte(core.TrimCodeFence(response)), &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMetadataParse, err)
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return &meta, nil
}
