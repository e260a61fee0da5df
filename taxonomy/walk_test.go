package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func collect(root string, maxDepth int) []Entry {
	var out []Entry
	for e := range Walk(root, maxDepth) {
		out = append(out, e)
	}
	return out
}

func TestWalkAssignsLevels(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "science", "physics", "quantum", "entanglement", "paper.pdf")

	entries := collect(root, 4)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "science", e.Domain)
	assert.Equal(t, "physics", e.Subject)
	assert.Equal(t, "quantum", e.Topic)
	assert.Equal(t, "entanglement", e.Subtopic)
	assert.Equal(t, "paper.pdf", e.Name)
	assert.Equal(t, "paper", e.Stem)
	assert.Equal(t, ".pdf", e.Ext)
}

func TestWalkShallowFilesHaveEmptyLevels(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.txt")
	writeFile(t, root, "science", "intro.md")

	entries := collect(root, 4)
	require.Len(t, entries, 2)

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.Empty(t, byName["notes.txt"].Domain)
	assert.Equal(t, "science", byName["intro.md"].Domain)
	assert.Empty(t, byName["intro.md"].Subject)
}

func TestWalkDepthLimit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", "b", "c", "d", "e", "too-deep.md")

	// Depth 4 descends into a/b/c/d but not e.
	assert.Empty(t, collect(root, 4))

	entries := collect(root, 5)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Domain)
	assert.Equal(t, "d", entries[0].Subtopic)
}

func TestWalkMissingRoot(t *testing.T) {
	assert.Empty(t, collect(filepath.Join(t.TempDir(), "nope"), 4))
}

func TestWalkIsRestartable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "science", "physics", "a.md")
	writeFile(t, root, "science", "physics", "b.md")

	seq := Walk(root, 4)
	first := 0
	for range seq {
		first++
		break
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestEntryFor(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "science", "physics", "paper.pdf")

	e, err := EntryFor(root, path)
	require.NoError(t, err)
	assert.Equal(t, "science", e.Domain)
	assert.Equal(t, "physics", e.Subject)
	assert.Empty(t, e.Topic)
	assert.Equal(t, "paper", e.Stem)
	assert.Equal(t, path, e.Path)
}

func TestEntryLevels(t *testing.T) {
	e := Entry{Domain: "science", Subject: "physics"}
	assert.Equal(t, []string{"science", "physics"}, e.Levels())
}
