package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data/knowledgebase", cfg.Paths.Knowledgebase)
	assert.Equal(t, "ollama", cfg.Models.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.Models.BaseURL)
	assert.Equal(t, "sqlite", cfg.Index.Backend)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 1, cfg.Server.Workers)
}

func TestLoadAppliesOverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
paths:
  knowledgebase: /srv/kb
models:
  provider: openai
  chat: gpt-4o-mini
retrieval:
  top_k: 5
  summarize: true
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/kb", cfg.Paths.Knowledgebase)
	assert.Equal(t, "openai", cfg.Models.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Models.Chat)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.True(t, cfg.Retrieval.Summarize)

	// Unset fields still get defaults.
	assert.Equal(t, "data/storage/markdown", cfg.Paths.Markdown)
	assert.Equal(t, 12, cfg.Retrieval.FetchK)
	// No Ollama host is assumed for other providers.
	assert.Empty(t, cfg.Models.BaseURL)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths: [not: a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
