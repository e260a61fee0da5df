// Package query turns a free-form question into sub-queries routed to the
// per-(domain, subject) indexes.
package query

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cerebrumkb/cerebrum/core"
	"github.com/cerebrumkb/cerebrum/llm"
	"github.com/cerebrumkb/cerebrum/taxonomy"
	"go.uber.org/zap"
)

// Router translates questions and validates routing assignments against the
// live taxonomy.
type Router struct {
	client llm.Client
	model  string
	logger *zap.Logger
}

// NewRouter creates a router. logger may be nil.
func NewRouter(client llm.Client, model string, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{client: client, model: model, logger: logger}
}

// Translate asks the generation capability to restructure the question with
// the taxonomy as a closed vocabulary. Malformed responses fail the whole
// question with core.ErrTranslationParse; nothing is salvaged from them.
func (r *Router) Translate(ctx context.Context, userQuery string, idx *taxonomy.Index) (*core.TranslatedQuery, error) {
	response, err := r.client.Generate(ctx, r.model, renderTranslatePrompt(userQuery, idx))
	if err != nil {
		return nil, fmt.Errorf("translate query: %w", err)
	}

	var tq core.TranslatedQuery
	if err := json.Unmarshal([]byte(core.TrimCodeFence(response)), &tq); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTranslationParse, err)
	}
	if tq.Rewritten == "" {
		return nil, fmt.Errorf("%w: missing rewritten query", core.ErrTranslationParse)
	}
	return &tq, nil
}

// BuildRoutes validates each subquery's (domain, subject) assignment against
// the taxonomy and maps survivors to index directories under root. Pairs
// with a missing half are dropped as an expected degraded case; pairs
// outside the known domain and subject sets are dropped as hallucinated
// categories. Dropping is logged, never substituted.
func (r *Router) BuildRoutes(tq *core.TranslatedQuery, idx *taxonomy.Index, root string) []core.RouteEntry {
	var routes []core.RouteEntry
	for _, sq := range tq.Subqueries {
		if sq.Domain == nil || sq.Subject == nil {
			r.logger.Warn("subquery missing domain or subject, dropping",
				zap.String("text", sq.Text))
			continue
		}

		target := core.TaxonomyPath{Domain: *sq.Domain, Subject: *sq.Subject}
		if !idx.HasDomain(target.Domain) || !idx.HasSubject(target.Subject) {
			r.logger.Warn("subquery outside known taxonomy, dropping",
				zap.String("text", sq.Text),
				zap.String("domain", target.Domain),
				zap.String("subject", target.Subject),
				zap.Error(core.ErrRoutingMismatch))
			continue
		}

		routes = append(routes, core.RouteEntry{
			Subquery: sq,
			Target:   target,
			Dir:      target.Dir(root),
		})
	}
	return routes
}
