package ui

import "strings"

// Searchable is a table row the filters can match.
type Searchable interface {
	SearchFields() []string
	PipelineStatus() string
}

// Matches reports whether item passes the search and status filters. The
// search is a case-insensitive substring match over the item's fields.
func (s State) Matches(item Searchable) bool {
	if s.Status != "" && item.PipelineStatus() != s.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(s.Search))
	if q == "" {
		return true
	}
	for _, f := range item.SearchFields() {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func FilterLeads[T Searchable](items []T, s State) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if s.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}
