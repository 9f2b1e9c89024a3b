package wikidata

import (
	"strings"
)

// Value is a single SPARQL result cell.
type Value struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Lang  string `json:"xml:lang,omitempty"`
}

// Binding maps SPARQL variable names to values. Variables bound inside
// OPTIONAL blocks may be absent.
type Binding map[string]Value

// Has reports whether the variable is bound.
func (b Binding) Has(name string) bool {
	_, ok := b[name]
	return ok
}

// String returns the variable's value, or "" if unbound.
func (b Binding) String(name string) string {
	return b[name].Value
}

// StringOr returns the variable's value, or def if unbound or empty.
func (b Binding) StringOr(name, def string) string {
	if v, ok := b[name]; ok && v.Value != "" {
		return v.Value
	}
	return def
}

// QID extracts the entity identifier from a URI-valued variable
// ("http://www.wikidata.org/entity/Q123" -> "Q123"). Returns "" if unbound.
func (b Binding) QID(name string) string {
	v, ok := b[name]
	if !ok {
		return ""
	}
	if i := strings.LastIndex(v.Value, "/"); i >= 0 {
		return v.Value[i+1:]
	}
	return v.Value
}

// Coalesce returns the first bound, non-empty variable among names.
func (b Binding) Coalesce(names ...string) string {
	for _, name := range names {
		if v, ok := b[name]; ok && v.Value != "" {
			return v.Value
		}
	}
	return ""
}
