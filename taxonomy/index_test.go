package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexAggregatesLevels(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "science", "physics", "a.md")
	writeFile(t, root, "science", "chemistry", "b.md")
	writeFile(t, root, "history", "rome", "c.md")

	idx, stems := BuildIndex(root)
	assert.Equal(t, []string{"history", "science"}, idx.Domains)
	assert.Equal(t, []string{"chemistry", "physics", "rome"}, idx.Subjects)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, stems)

	assert.True(t, idx.HasDomain("science"))
	assert.False(t, idx.HasDomain("physics"))
	assert.True(t, idx.HasSubject("rome"))
	assert.False(t, idx.HasSubject("science"))
}

func TestBuildIndexFiltersInternalStorageDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "science", "physics", "a.md")
	writeFile(t, root, "science", "physics", "e4b2a1c0-1234-4f5a-9b8c-0d1e2f3a4b5c", "data.bin")

	idx, stems := BuildIndex(root)
	require.Equal(t, []string{"science"}, idx.Domains)
	assert.Equal(t, []string{"physics"}, idx.Subjects)
	assert.Empty(t, idx.Topics)
	assert.Equal(t, []string{"a"}, stems)
}

func TestIsUUIDPinsCanonicalForm(t *testing.T) {
	assert.True(t, isUUID("e4b2a1c0-1234-4f5a-9b8c-0d1e2f3a4b5c"))
	assert.True(t, isUUID("E4B2A1C0-1234-4F5A-9B8C-0D1E2F3A4B5C"))
	// Other forms uuid.Parse accepts are not taxonomy noise.
	assert.False(t, isUUID("e4b2a1c012344f5a9b8c0d1e2f3a4b5c"))
	assert.False(t, isUUID("{e4b2a1c0-1234-4f5a-9b8c-0d1e2f3a4b5c}"))
	assert.False(t, isUUID("physics"))
}

func TestBuildIndexEmptyRoot(t *testing.T) {
	idx, stems := BuildIndex(t.TempDir())
	assert.Empty(t, idx.Domains)
	assert.Empty(t, stems)
	assert.False(t, idx.HasDomain("anything"))
}
