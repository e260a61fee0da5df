package query

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cerebrumkb/cerebrum/core"
	"github.com/cerebrumkb/cerebrum/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	response string
	err      error
	prompts  []string
}

func (c *scriptedClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.response, c.err
}

func testTaxonomy() *taxonomy.Index {
	return &taxonomy.Index{
		Domains:  []string{"history", "science"},
		Subjects: []string{"physics", "rome"},
	}
}

func TestTranslateParsesStructuredResponse(t *testing.T) {
	client := &scriptedClient{response: "```json\n" + `{
		"rewritten": "what is quantum entanglement",
		"domain": "science",
		"subject": "physics",
		"subqueries": [
			{"text": "entanglement basics", "domain": "science", "subject": "physics"}
		]
	}` + "\n```"}
	r := NewRouter(client, "test-model", nil)

	tq, err := r.Translate(context.Background(), "whats entanglement??", testTaxonomy())
	require.NoError(t, err)
	assert.Equal(t, "what is quantum entanglement", tq.Rewritten)
	require.Len(t, tq.Subqueries, 1)

	// The closed vocabulary is offered in the prompt.
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "science")
	assert.Contains(t, client.prompts[0], "rome")
	assert.Contains(t, client.prompts[0], "whats entanglement??")
}

func TestTranslateRejectsMalformedResponse(t *testing.T) {
	for _, response := range []string{
		"Sure! Here is the JSON you asked for: {...}",
		`{"rewritten": }`,
		`{"domain": "science"}`, // no rewritten query
	} {
		client := &scriptedClient{response: response}
		r := NewRouter(client, "test-model", nil)

		_, err := r.Translate(context.Background(), "question", testTaxonomy())
		require.Error(t, err, "response %q", response)
		assert.ErrorIs(t, err, core.ErrTranslationParse)
	}
}

func TestBuildRoutesValidatesAssignments(t *testing.T) {
	science := "science"
	physics := "physics"
	outside := "astrology"

	tq := &core.TranslatedQuery{
		Rewritten: "compare things",
		Subqueries: []core.Subquery{
			{Text: "routable", Domain: &science, Subject: &physics},
			{Text: "no subject", Domain: &science, Subject: nil},
			{Text: "hallucinated", Domain: &outside, Subject: &physics},
		},
	}

	r := NewRouter(&scriptedClient{}, "test-model", nil)
	routes := r.BuildRoutes(tq, testTaxonomy(), "root")

	require.Len(t, routes, 1)
	assert.Equal(t, "routable", routes[0].Subquery.Text)
	assert.Equal(t, core.TaxonomyPath{Domain: "science", Subject: "physics"}, routes[0].Target)
	assert.Equal(t, filepath.Join("root", "science", "physics"), routes[0].Dir)
}

func TestBuildRoutesCrossedPairs(t *testing.T) {
	// Both halves exist but only as a domain and a subject respectively, so
	// the pair routes; a subject used as a domain does not.
	rome := "rome"
	history := "history"

	tq := &core.TranslatedQuery{
		Subqueries: []core.Subquery{
			{Text: "ok", Domain: &history, Subject: &rome},
			{Text: "swapped", Domain: &rome, Subject: &history},
		},
	}

	r := NewRouter(&scriptedClient{}, "test-model", nil)
	routes := r.BuildRoutes(tq, testTaxonomy(), "root")
	require.Len(t, routes, 1)
	assert.Equal(t, "ok", routes[0].Subquery.Text)
}

func TestBuildRoutesEmptySubqueries(t *testing.T) {
	r := NewRouter(&scriptedClient{}, "test-model", nil)
	routes := r.BuildRoutes(&core.TranslatedQuery{Rewritten: "q"}, testTaxonomy(), "root")
	assert.Empty(t, routes)
}
