package core

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// StringList accepts either a JSON string or an array of strings. The
// generation capability is inconsistent about scalar vs list fields, so both
// forms normalize to a slice.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = StringList(many)
	return nil
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// SanitizedMetadata is the normalized description of one document. Title
// becomes the canonical filename stem and must be a filesystem-safe slug.
type SanitizedMetadata struct {
	Title    string     `json:"title"`
	Domain   string     `json:"domain"`
	Subject  string     `json:"subject"`
	Authors  StringList `json:"authors"`
	Keywords StringList `json:"keywords"`
}

// Validate checks the schema constraints the normalization capability must
// satisfy. A violating response is rejected, never propagated.
func (m *SanitizedMetadata) Validate() error {
	if m.Title == "" || m.Domain == "" || m.Subject == "" {
		return fmt.Errorf("%w: title, domain and subject are required", ErrMetadataParse)
	}
	if !slugPattern.MatchString(m.Title) {
		return fmt.Errorf("%w: title %q is not a lowercase hyphenated slug", ErrMetadataParse, m.Title)
	}
	return nil
}

// Subquery is one routed fragment of a translated question. Domain and
// subject are pointers so a missing assignment is distinguishable from an
// empty one.
type Subquery struct {
	Text    string  `json:"text"`
	Domain  *string `json:"domain"`
	Subject *string `json:"subject"`
}

// TranslatedQuery is the structured form of a user question produced by the
// generation capability.
type TranslatedQuery struct {
	Rewritten  string     `json:"rewritten"`
	Domain     StringList `json:"domain"`
	Subject    StringList `json:"subject"`
	Subqueries []Subquery `json:"subqueries"`
}

// RouteEntry pairs a validated subquery with the index directory it targets.
type RouteEntry struct {
	Subquery Subquery
	Target   TaxonomyPath
	Dir      string
}
