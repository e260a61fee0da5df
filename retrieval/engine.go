// Package retrieval executes routed sub-queries against their indexes and
// composes the final answer.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/cerebrumkb/cerebrum/core"
	"github.com/cerebrumkb/cerebrum/index"
	"github.com/cerebrumkb/cerebrum/llm"
	"go.uber.org/zap"
)

const mmrLambda = 0.7

// Config wires the engine's collaborators.
type Config struct {
	OpenIndex  index.Opener
	Client     llm.Client
	Embedder   llm.EmbeddingClient
	ChatModel  string
	EmbedModel string

	// FetchK is the candidate pool size per route before diversity
	// selection. Defaults to 4x the requested k.
	FetchK int

	// Summarize condenses each passage through the generation capability
	// before composing the final context. One extra generation call per
	// passage buys a smaller, denser context window.
	Summarize bool
}

// Engine is the retrieval and aggregation engine.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine creates an engine. logger may be nil.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Retrieve runs every route's sub-query against its target index, selecting
// k diverse results per route out of a larger candidate pool. Route order is
// preserved; no deduplication happens across routes at this stage.
func (e *Engine) Retrieve(ctx context.Context, routes []core.RouteEntry, k int) ([][]index.SearchResult, error) {
	fetchK := e.cfg.FetchK
	if fetchK < k {
		fetchK = 4 * k
	}

	all := make([][]index.SearchResult, 0, len(routes))
	for _, route := range routes {
		results, err := e.retrieveRoute(ctx, route, k, fetchK)
		if err != nil {
			return nil, fmt.Errorf("route %s/%s: %w", route.Target.Domain, route.Target.Subject, err)
		}
		all = append(all, results)
	}
	return all, nil
}

func (e *Engine) retrieveRoute(ctx context.Context, route core.RouteEntry, k, fetchK int) ([]index.SearchResult, error) {
	store, err := e.cfg.OpenIndex(route.Dir)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer store.Close()

	resp, err := e.cfg.Embedder.Embed(ctx, e.cfg.EmbedModel, route.Subquery.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := store.Search(ctx, route.Target.Collection(), resp.Embedding, fetchK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := index.MaxMarginalRelevance(resp.Embedding, candidates, k, mmrLambda)
	e.logger.Debug("retrieved",
		zap.String("domain", route.Target.Domain),
		zap.String("subject", route.Target.Subject),
		zap.Int("candidates", len(candidates)),
		zap.Int("selected", len(results)))
	return results, nil
}

// Generate flattens the retrieved passages, deduplicates them by exact text
// (first occurrence wins), truncates to topK and issues the final answer
// call. The model is instructed to answer only from the supplied context and
// to fall back to the insufficient-information sentinel.
func (e *Engine) Generate(ctx context.Context, userQuery string, all [][]index.SearchResult, topK int) (string, error) {
	passages := Dedupe(all)
	if topK > 0 && len(passages) > topK {
		passages = passages[:topK]
	}

	if len(passages) == 0 {
		return InsufficientContext, nil
	}

	if e.cfg.Summarize {
		condensed, err := e.summarize(ctx, userQuery, passages)
		if err != nil {
			return "", err
		}
		passages = condensed
	}

	contextBlock := strings.Join(passages, "\n---\n")
	answer, err := e.cfg.Client.Generate(ctx, e.cfg.ChatModel, renderAnswerPrompt(contextBlock, userQuery))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func (e *Engine) summarize(ctx context.Context, userQuery string, passages []string) ([]string, error) {
	out := make([]string, 0, len(passages))
	for _, p := range passages {
		condensed, err := e.cfg.Client.Generate(ctx, e.cfg.ChatModel, renderSummarizePrompt(userQuery, p))
		if err != nil {
			return nil, fmt.Errorf("summarize passage: %w", err)
		}
		out = append(out, strings.TrimSpace(condensed))
	}
	return out, nil
}

// Dedupe flattens result lists into passage texts, removing exact-text
// duplicates while preserving first-seen order.
func Dedupe(all [][]index.SearchResult) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, results := range all {
		for _, r := range results {
			if _, ok := seen[r.Document.Content]; ok {
				continue
			}
			seen[r.Document.Content] = struct{}{}
			out = append(out, r.Document.Content)
		}
	}
	return out
}
