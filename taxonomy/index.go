package taxonomy

import (
	"sort"

	"github.com/google/uuid"
)

// Index is the aggregate view of distinct values seen at each taxonomy
// level. It is rebuilt on demand and consumed read-only by the query router.
type Index struct {
	Domains   []string `json:"domains"`
	Subjects  []string `json:"subjects"`
	Topics    []string `json:"topics"`
	Subtopics []string `json:"subtopics"`
}

// HasDomain reports whether d is a known domain.
func (x *Index) HasDomain(d string) bool {
	return contains(x.Domains, d)
}

// HasSubject reports whether s is a known subject.
func (x *Index) HasSubject(s string) bool {
	return contains(x.Subjects, s)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// BuildIndex walks root to depth 4 and aggregates the taxonomy. Entries with
// any level matching the canonical UUID form are discarded: index engines
// name their internal storage directories with opaque identifiers, and those
// must never be offered as routing targets. Returns the index plus the stems
// of the surviving files.
func BuildIndex(root string) (*Index, []string) {
	domains := map[string]struct{}{}
	subjects := map[string]struct{}{}
	topics := map[string]struct{}{}
	subtopics := map[string]struct{}{}
	var stems []string

	for e := range Walk(root, 4) {
		if hasUUIDLevel(e) {
			continue
		}
		addLevel(domains, e.Domain)
		addLevel(subjects, e.Subject)
		addLevel(topics, e.Topic)
		addLevel(subtopics, e.Subtopic)
		stems = append(stems, e.Stem)
	}

	return &Index{
		Domains:   sorted(domains),
		Subjects:  sorted(subjects),
		Topics:    sorted(topics),
		Subtopics: sorted(subtopics),
	}, stems
}

func hasUUIDLevel(e Entry) bool {
	for _, l := range e.Levels() {
		if isUUID(l) {
			return true
		}
	}
	return false
}

// isUUID matches the canonical 8-4-4-4-12 textual form, case-insensitively.
// uuid.Parse also accepts braced, URN and bare-hex forms, so the length
// check pins it to the canonical one.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func addLevel(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
