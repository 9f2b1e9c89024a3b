// Package resolve links free-text organization names to canonical
// Wikidata entities and aggregates their corporate lineage and market
// identifiers.
package resolve

import (
	"sort"
	"strings"
)

// Status is the lifecycle outcome of a resolution.
type Status string

// Lifecycle states.
const (
	StatusActive     Status = "Active"
	StatusInactive   Status = "Inactive"
	StatusUnresolved Status = "Unresolved"
)

// Sentinel cell values for empty sets in the output row format.
const (
	cellPrivate = "Private/Unlisted"
	cellNA      = "N/A"
)

// Resolution is the final output for one raw name. Ticker and exchange
// sets are sorted, deduplicated, and never contain empty strings. An
// Unresolved resolution has no QID and empty sets.
type Resolution struct {
	Name      string
	Tickers   []string
	Exchanges []string
	Status    Status
	QID       string
}

// Resolved reports whether the name was linked to an entity.
func (r Resolution) Resolved() bool {
	return r.Status != StatusUnresolved
}

// Fields renders the resolution as output row cells: canonical name,
// semicolon-joined tickers, semicolon-joined exchanges, status, QID.
func (r Resolution) Fields() []string {
	return []string{
		r.Name,
		joinSet(r.Tickers, cellPrivate),
		joinSet(r.Exchanges, cellNA),
		string(r.Status),
		r.QID,
	}
}

// ParseFields reconstructs a Resolution from output row cells produced by
// Fields. It is the inverse up to set ordering.
func ParseFields(cells []string) Resolution {
	if len(cells) < 5 {
		return Resolution{Status: StatusUnresolved}
	}
	return Resolution{
		Name:      cells[0],
		Tickers:   splitSet(cells[1], cellPrivate),
		Exchanges: splitSet(cells[2], cellNA),
		Status:    Status(cells[3]),
		QID:       cells[4],
	}
}

func joinSet(values []string, empty string) string {
	if len(values) == 0 {
		return empty
	}
	return strings.Join(values, "; ")
}

func splitSet(cell, empty string) []string {
	if cell == "" || cell == empty {
		return nil
	}
	return normalizeSet(strings.Split(cell, ";"))
}

// normalizeSet trims, drops empties, deduplicates, and sorts.
func normalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
