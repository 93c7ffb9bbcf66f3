package brew

import (
	"slices"
	"strings"
)

// SplitTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func SplitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasTag reports whether the recipe carries tag exactly (after trimming).
func (r *Recipe) HasTag(tag string) bool {
	return slices.Contains(SplitTags(r.Tags), strings.TrimSpace(tag))
}

// AllTags collects the distinct tags of recipes in sorted order.
func AllTags(recipes []Recipe) []string {
	seen := make(map[string]struct{})
	for _, r := range recipes {
		for _, t := range SplitTags(r.Tags) {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// FilterByTag returns the recipes carrying tag. An empty tag returns all.
func FilterByTag(recipes []Recipe, tag string) []Recipe {
	if strings.TrimSpace(tag) == "" {
		return recipes
	}
	var out []Recipe
	for _, r := range recipes {
		if r.HasTag(tag) {
			out = append(out, r)
		}
	}
	return out
}

// MatchesQuery reports whether a case-insensitive query occurs in the
// recipe's name, brewer, style or tags.
func (r *Recipe) MatchesQuery(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, field := range []string{r.Name, r.Brewer, r.Style, r.Tags} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
