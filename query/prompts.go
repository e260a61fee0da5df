package query

import (
	"fmt"
	"strings"

	"github.com/cerebrumkb/cerebrum/taxonomy"
)

const translatePrompt = `You translate a user's question into retrieval queries for a personal
knowledge base. The knowledge base is partitioned by domain and subject;
these are the ONLY valid values:

Domains: %s
Subjects: %s

Rewrite the question as a single fact-seeking query, then break it into one
or more sub-queries, each assigned to the one domain and subject most likely
to contain the answer. Use null for domain or subject when no listed value
fits; never invent values outside the lists.

Question: %s

Respond with a single JSON object, no prose:
{
  "rewritten": "...",
  "domain": ["matched domains"],
  "subject": ["matched subjects"],
  "subqueries": [
    {"text": "...", "domain": "... or null", "subject": "... or null"}
  ]
}`

func renderTranslatePrompt(userQuery string, idx *taxonomy.Index) string {
	return fmt.Sprintf(translatePrompt,
		formatVocabulary(idx.Domains),
		formatVocabulary(idx.Subjects),
		userQuery)
}

func formatVocabulary(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
