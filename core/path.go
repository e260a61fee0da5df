package core

import "path/filepath"

// TaxonomyPath is a (domain, subject) pair. Directory names under the
// knowledge roots double as routing and collection keys, so every place a
// pair crosses a component boundary uses this type instead of ad hoc string
// joining.
type TaxonomyPath struct {
	Domain  string `json:"domain"`
	Subject string `json:"subject"`
}

// Valid reports whether both segments are set.
func (p TaxonomyPath) Valid() bool {
	return p.Domain != "" && p.Subject != ""
}

// Dir resolves the pair against a root directory.
func (p TaxonomyPath) Dir(root string) string {
	return filepath.Join(root, p.Domain, p.Subject)
}

// Collection returns the index collection key for the pair.
func (p TaxonomyPath) Collection() string {
	return p.Subject
}
