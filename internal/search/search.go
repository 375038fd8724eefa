// Package search decides whether a paper matches the configured keyword
// policy. Matching is plain case-insensitive substring containment, so a
// short keyword like "rl" will also hit inside longer words such as "url";
// word-boundary matching is a known candidate improvement.
package search

import (
	"strings"

	"arxiv-alert/internal/feed"
)

// Policy is the full keyword matching configuration: a paper matches when
// every keyword of at least one group appears in the enabled fields.
type Policy struct {
	Groups         [][]string
	SearchTitle    bool
	SearchAbstract bool
}

// String renders the policy for display, e.g. `(a AND b) OR (c)`.
func (p Policy) String() string {
	groups := make([]string, 0, len(p.Groups))
	for _, g := range p.Groups {
		groups = append(groups, "("+strings.Join(g, " AND ")+")")
	}
	return strings.Join(groups, " OR ")
}

// Matches reports whether the paper satisfies the policy. A policy with zero
// groups never matches, and neither does one with both search fields
// disabled. Pure function, deterministic for a given paper and policy.
func Matches(p feed.Paper, pol Policy) bool {
	if len(pol.Groups) == 0 {
		return false
	}

	var sb strings.Builder
	if pol.SearchTitle {
		sb.WriteString(strings.ToLower(p.Title))
		sb.WriteByte(' ')
	}
	if pol.SearchAbstract {
		sb.WriteString(strings.ToLower(p.Abstract))
	}
	text := sb.String()
	if text == "" {
		return false
	}

	for _, group := range pol.Groups {
		if groupMatches(text, group) {
			return true
		}
	}
	return false
}

// groupMatches reports whether every keyword in the group appears in text.
func groupMatches(text string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}
