package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cerebrumkb/cerebrum/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextConverterPassesThroughText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nbody\n"), 0644))

	c := NewTextConverter()
	out, err := c.Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody\n", out)
}

func TestTextConverterRejectsUnsupportedExtensions(t *testing.T) {
	c := NewTextConverter()
	for _, name := range []string{"paper.pdf", "slides.pptx", "noext"} {
		_, err := c.Convert(context.Background(), filepath.Join(t.TempDir(), name))
		require.Error(t, err, name)
		assert.ErrorIs(t, err, core.ErrConversion)
	}
}

func TestTextConverterMissingFile(t *testing.T) {
	c := NewTextConverter()
	_, err := c.Convert(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConversion)
}

func TestFileMetadataReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	r := NewFileMetadataReader()
	meta, err := r.ReadMetadata(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", meta["filename"])
	assert.Equal(t, "5", meta["size"])
	assert.NotEmpty(t, meta["modified"])

	// Missing files are a best-effort empty result, not an error.
	meta, err = r.ReadMetadata(context.Background(), filepath.Join(dir, "gone"))
	require.NoError(t, err)
	assert.Empty(t, meta)
}
