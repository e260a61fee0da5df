package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral:7b", req["model"])
		assert.Equal(t, false, req["stream"])

		json.NewEncoder(w).Encode(map[string]any{"response": "hello"})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL)
	out, err := c.Generate(context.Background(), "mistral:7b", "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestOllamaClientTrimsV1Suffix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float64{{0.1, 0.2}}})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL + "/v1")
	resp, err := c.Embed(context.Background(), "embed-model", "text")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, resp.Embedding)
}

func TestOllamaErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL)
	_, err := c.Generate(context.Background(), "missing", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "answer"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClientWithConfig(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	out, err := c.Generate(context.Background(), "gpt-4o-mini", "question")
	require.NoError(t, err)
	assert.Equal(t, "answer", out)
}

func TestOpenAIEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data":  []map[string]any{{"embedding": []float64{0.5, 0.25}}},
			"usage": map[string]any{"total_tokens": 7},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClientWithConfig(ClientConfig{APIKey: "k", BaseURL: srv.URL})
	resp, err := c.Embed(context.Background(), "text-embedding-3-small", "text")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25}, resp.Embedding)
	assert.Equal(t, 7, resp.TokenCount)
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewOpenAIClientWithConfig(ClientConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), "m", "p")
	assert.Error(t, err)
}
