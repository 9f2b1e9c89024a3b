package resolve

import (
	"regexp"
	"strings"
)

// StripRule removes a trailing suffix from a name. Rules are applied in
// order, repeatedly, until none matches.
type StripRule struct {
	Name    string
	Pattern *regexp.Regexp
}

func stripRule(name, pattern string) StripRule {
	return StripRule{Name: name, Pattern: regexp.MustCompile(pattern)}
}

// DefaultStripRules returns the suffix-stripping ladder: legal-entity
// suffixes first, then broader pharma-sector suffixes. Sponsor names in
// source records are frequently full legal names that do not match the
// knowledge graph's preferred label verbatim.
func DefaultStripRules() []StripRule {
	return []StripRule{
		stripRule("inc", `(?i),?\s+Inc\.?$`),
		stripRule("incorporated", `(?i),?\s+Incorporated$`),
		stripRule("llc", `(?i),?\s+LLC$`),
		stripRule("llc-dotted", `(?i),?\s+L\.L\.C\.$`),
		stripRule("lp", `(?i),?\s+LP$`),
		stripRule("lp-dotted", `(?i),?\s+L\.P\.$`),
		stripRule("ltd", `(?i),?\s+Ltd\.?$`),
		stripRule("limited", `(?i),?\s+Limited$`),
		stripRule("corp", `(?i),?\s+Corp\.?$`),
		stripRule("corporation", `(?i),?\s+Corporation$`),
		stripRule("plc", `(?i),?\s+PLC$`),
		stripRule("sa", `(?i),?\s+S\.A\.$`),
		stripRule("gmbh", `(?i),?\s+GmbH$`),
		stripRule("nv", `(?i),?\s+N\.V\.$`),
		stripRule("bv", `(?i),?\s+B\.V\.$`),
		stripRule("pharmaceuticals", `(?i)\s+Pharmaceuticals?$`),
		stripRule("biotech", `(?i)\s+Biotech$`),
		stripRule("therapeutics", `(?i)\s+Therapeutics$`),
		stripRule("biosciences", `(?i)\s+Biosciences$`),
		stripRule("company", `(?i)\s+Company$`),
		stripRule("sciences", `(?i)\s+Sciences$`),
	}
}

// defaultAugmentSuffixes are appended to short names to catch entities
// whose graph label carries the sector suffix the source record dropped.
var defaultAugmentSuffixes = []string{
	" Pharmaceuticals",
	" Pharmaceutica",
	" Biotech",
	" Therapeutics",
}

// VariationGenerator produces alternate search terms for a raw name.
type VariationGenerator struct {
	rules           []StripRule
	augmentSuffixes []string
}

// NewVariationGenerator creates a generator with the default rule set.
func NewVariationGenerator() *VariationGenerator {
	return &VariationGenerator{
		rules:           DefaultStripRules(),
		augmentSuffixes: defaultAugmentSuffixes,
	}
}

// WithRules replaces the strip rule ladder.
func (g *VariationGenerator) WithRules(rules []StripRule) *VariationGenerator {
	g.rules = rules
	return g
}

// BaseName strips trailing suffixes until no rule matches.
func (g *VariationGenerator) BaseName(name string) string {
	cleaned := strings.TrimSpace(name)
	for {
		changed := false
		for _, rule := range g.rules {
			next := rule.Pattern.ReplaceAllString(cleaned, "")
			if next != cleaned {
				cleaned = strings.TrimSpace(next)
				changed = true
			}
		}
		if !changed {
			return cleaned
		}
	}
}

// Variations returns an ordered list of distinct search terms for the
// name. The original name is always first.
func (g *VariationGenerator) Variations(name string) []string {
	name = strings.TrimSpace(name)
	out := []string{name}
	seen := map[string]struct{}{strings.ToLower(name): {}}

	add := func(term string) {
		key := strings.ToLower(term)
		if term == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, term)
	}

	// Suffix-stripped base name.
	if base := g.BaseName(name); base != name {
		add(base)
	}

	// Leading token of multi-word names. Very short tokens are usually
	// acronym noise, skip them.
	words := strings.Fields(name)
	if len(words) > 1 && len(words[0]) > 3 {
		add(words[0])
	}

	// Sector-suffix augmentation for single-token or short names.
	if len(words) <= 1 || len(name) < 15 {
		lower := strings.ToLower(name)
		for _, suffix := range g.augmentSuffixes {
			if !strings.Contains(lower, strings.ToLower(strings.TrimSpace(suffix))) {
				add(name + suffix)
			}
		}
	}

	return out
}
