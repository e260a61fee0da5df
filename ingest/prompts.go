package ingest

import (
	"fmt"
	"sort"
	"strings"
)

const sanitizePrompt = `You normalize document metadata for a personal knowledge base.

Given a filename and whatever raw metadata the source file carries, produce a
single JSON object with exactly these fields:

  "title": a short descriptive title as a lowercase hyphenated slug
           (letters, digits and hyphens only, e.g. "intro-to-cells")
  "domain": the broad knowledge domain the document belongs to
  "subject": the subject within that domain
  "authors": author name or list of names ("unknown" if absent)
  "keywords": a list of 3-8 topical keywords

Filename: %s
Raw metadata:
%s

Respond with the JSON object only, no prose.`

func renderSanitizePrompt(filename string, raw map[string]string) string {
	return fmt.Sprintf(sanitizePrompt, filename, formatRawMetadata(raw))
}

func formatRawMetadata(raw map[string]string) string {
	if len(raw) == 0 {
		return "  (none)"
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s: %s\n", k, raw[k])
	}
	return strings.TrimRight(sb.String(), "\n")
}
