package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/cerebrumkb/cerebrum/core"
	"github.com/cerebrumkb/cerebrum/index"
	"github.com/cerebrumkb/cerebrum/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	responses []string
	prompts   []string
}

func (c *fakeClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if len(c.responses) == 0 {
		return "", fmt.Errorf("no scripted response")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, model, input string) (*llm.EmbeddingResponse, error) {
	// Deterministic embedding keyed on input length, enough to rank results.
	return &llm.EmbeddingResponse{Embedding: []float64{1, float64(len(input) % 3)}}, nil
}

func result(text string, embedding ...float64) index.SearchResult {
	return index.SearchResult{Document: index.Document{ID: text, Content: text, Embedding: embedding}}
}

func TestDedupe(t *testing.T) {
	all := [][]index.SearchResult{
		{result("A"), result("B")},
		{result("A"), result("C")},
	}
	assert.Equal(t, []string{"A", "B", "C"}, Dedupe(all))
	assert.Empty(t, Dedupe(nil))
}

func TestGenerateComposesAnswerFromContext(t *testing.T) {
	client := &fakeClient{responses: []string{"  The answer.  "}}
	e := NewEngine(Config{Client: client, ChatModel: "m"}, nil)

	all := [][]index.SearchResult{{result("passage one"), result("passage two")}}
	answer, err := e.Generate(context.Background(), "the question", all, 8)
	require.NoError(t, err)
	assert.Equal(t, "The answer.", answer)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "passage one")
	assert.Contains(t, client.prompts[0], "passage two")
	assert.Contains(t, client.prompts[0], "the question")
	assert.Contains(t, client.prompts[0], InsufficientContext)
}

func TestGenerateEmptyContextReturnsSentinel(t *testing.T) {
	client := &fakeClient{}
	e := NewEngine(Config{Client: client, ChatModel: "m"}, nil)

	answer, err := e.Generate(context.Background(), "q", nil, 8)
	require.NoError(t, err)
	assert.Equal(t, InsufficientContext, answer)
	// No generation call is spent on an empty context.
	assert.Empty(t, client.prompts)
}

func TestGenerateTruncatesToTopK(t *testing.T) {
	client := &fakeClient{responses: []string{"ok"}}
	e := NewEngine(Config{Client: client, ChatModel: "m"}, nil)

	all := [][]index.SearchResult{{result("first"), result("second"), result("third")}}
	_, err := e.Generate(context.Background(), "q", all, 2)
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "first")
	assert.Contains(t, client.prompts[0], "second")
	assert.NotContains(t, client.prompts[0], "third")
}

func TestGenerateSummarizeCondensesPassages(t *testing.T) {
	client := &fakeClient{responses: []string{"condensed one", "condensed two", "final answer"}}
	e := NewEngine(Config{Client: client, ChatModel: "m", Summarize: true}, nil)

	all := [][]index.SearchResult{{result("long passage one"), result("long passage two")}}
	answer, err := e.Generate(context.Background(), "q", all, 8)
	require.NoError(t, err)
	assert.Equal(t, "final answer", answer)

	// One summarize call per passage, then one answer call.
	require.Len(t, client.prompts, 3)
	assert.Contains(t, client.prompts[2], "condensed one")
	assert.Contains(t, client.prompts[2], "condensed two")
	assert.NotContains(t, client.prompts[2], "long passage one")
}

func TestRetrievePreservesRouteOrder(t *testing.T) {
	physics := index.NewMemoryStore()
	rome := index.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, physics.Upsert(ctx, "physics", []index.Document{
		{ID: "p1", Content: "about quarks", Embedding: []float64{1, 0}},
	}))
	require.NoError(t, rome.Upsert(ctx, "rome", []index.Document{
		{ID: "r1", Content: "about legions", Embedding: []float64{1, 0}},
	}))

	stores := map[string]index.Store{
		"root/science/physics": physics,
		"root/history/rome":    rome,
	}
	opener := func(dir string) (index.Store, error) {
		s, ok := stores[dir]
		if !ok {
			return nil, fmt.Errorf("unexpected dir %q", dir)
		}
		return s, nil
	}

	e := NewEngine(Config{
		OpenIndex:  opener,
		Embedder:   fakeEmbedder{},
		EmbedModel: "e",
	}, nil)

	routes := []core.RouteEntry{
		{
			Subquery: core.Subquery{Text: "quark question"},
			Target:   core.TaxonomyPath{Domain: "science", Subject: "physics"},
			Dir:      "root/science/physics",
		},
		{
			Subquery: core.Subquery{Text: "legion question"},
			Target:   core.TaxonomyPath{Domain: "history", Subject: "rome"},
			Dir:      "root/history/rome",
		},
	}

	all, err := e.Retrieve(ctx, routes, 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Len(t, all[0], 1)
	assert.Equal(t, "about quarks", all[0][0].Document.Content)
	assert.Equal(t, "about legions", all[1][0].Document.Content)
}
