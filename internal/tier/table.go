package tier

import (
	"fmt"
	"sort"
)

// Table maps normalized product tags to access tier names. An access tier name
// doubles as the name of the matching group role in the chat space.
type Table map[string]string

// DefaultTable returns the compiled-in tag mapping for the ACE storefront.
func DefaultTable() Table {
	return Table{
		"single-course":       "Single Curse",
		"formacion-por-fases": "Formación por Fases",
		"mentoria":            "Mentoría",
		"club-ace":            "Club ACE",
		"diplomatura":         "Diplomatura",
	}
}

// Lookup normalizes the given tag and resolves it to a tier name.
func (t Table) Lookup(tag string) (string, bool) {
	name, ok := t[Normalize(tag)]
	return name, ok
}

// Tiers returns the distinct tier names in the table, sorted.
func (t Table) Tiers() []string {
	seen := make(map[string]struct{}, len(t))
	out := make([]string, 0, len(t))
	for _, name := range t {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Validate checks that every key is already in normalized form. Lookups
// normalize the incoming tag only, so a denormalized key would never match.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	for key, name := range t {
		if key == "" || name == "" {
			return fmt.Errorf("tier table contains an empty entry")
		}
		if normalized := Normalize(key); normalized != key {
			return fmt.Errorf("tier table key %q is not normalized (want %q)", key, normalized)
		}
	}
	return nil
}
