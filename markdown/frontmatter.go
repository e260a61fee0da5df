package markdown

import (
	"fmt"
	"strings"

	"github.com/cerebrumkb/cerebrum/core"
	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// RenderFrontMatter serializes sanitized metadata as a YAML front matter
// block ready to prepend to a markdown body.
func RenderFrontMatter(meta *core.SanitizedMetadata) (string, error) {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}
	return fmt.Sprintf("%s\n%s%s\n\n", frontMatterDelim, data, frontMatterDelim), nil
}

// StripFrontMatter removes a leading YAML front matter block, if present,
// and returns the remaining body. Documents without front matter pass
// through unchanged.
func StripFrontMatter(text string) string {
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return text
	}
	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim+"\n")
	if end < 0 {
		return text
	}
	body := rest[end+len(frontMatterDelim)+2:]
	return strings.TrimPrefix(body, "\n")
}

// ParseFrontMatter decodes the front matter block into sanitized metadata.
// Returns nil when the document has no front matter.
func ParseFrontMatter(text string) (*core.SanitizedMetadata, error) {
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return nil, nil
	}
	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim+"\n")
	if end < 0 {
		return nil, nil
	}
	var meta core.SanitizedMetadata
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	return &meta, nil
}
