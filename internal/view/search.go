package view

import "strings"

// matcher holds a prepared search term. The no-op check trims the term but
// matching uses it untrimmed, so a leading space is part of the needle.
type matcher struct {
	raw   string
	lower string
	empty bool
}

func newMatcher(term string) matcher {
	return matcher{
		raw:   term,
		lower: strings.ToLower(term),
		empty: strings.TrimSpace(term) == "",
	}
}

// matchAny reports whether the lower-cased term occurs in any of the fields
func (m matcher) matchAny(fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), m.lower) {
			return true
		}
	}
	return false
}

// verbatim is a case-sensitive substring match on the raw term
func (m matcher) verbatim(field string) bool {
	return strings.Contains(field, m.raw)
}

// filter keeps the items that satisfy keep, preserving order. An empty
// search returns the input unchanged.
func filter[T any](items []T, m matcher, keep func(T) bool) []T {
	if m.empty {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
