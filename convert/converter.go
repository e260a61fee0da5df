// Package convert defines the document conversion collaborator contracts and
// a plain-text implementation.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cerebrumkb/cerebrum/core"
)

// Converter turns a source document into markdown text.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// MetadataReader extracts whatever source metadata a document carries.
// Best-effort: an empty mapping is a valid result.
type MetadataReader interface {
	ReadMetadata(ctx context.Context, path string) (map[string]string, error)
}

// TextConverter handles documents that are already text. Markdown passes
// through unchanged; anything else fails with core.ErrConversion so the
// batch driver can log and move on.
type TextConverter struct{}

func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

func (c *TextConverter) Convert(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", core.ErrConversion, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrConversion, err)
	}
	return string(data), nil
}

// FileMetadataReader reports basic filesystem facts about the source file.
type FileMetadataReader struct{}

func NewFileMetadataReader() *FileMetadataReader {
	return &FileMetadataReader{}
}

func (r *FileMetadataReader) ReadMetadata(ctx context.Context, path string) (map[string]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return map[string]string{}, nil
	}
	return map[string]string{
		"filename": info.Name(),
		"size":     fmt.Sprintf("%d", info.Size()),
		"modified": info.ModTime().UTC().Format(time.RFC3339),
	}, nil
}
