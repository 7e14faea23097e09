// Package listfilter applies category tabs and free-text search to a
// collection that has already been fetched. Nothing here mutates its input.
package listfilter

import "strings"

// All is the category value that matches every item.
const All = "all"

type Filter[T any] struct {
	// Category returns the item's category value, compared exactly.
	Category func(T) string
	// Fields are the searchable text fields of an item.
	Fields []func(T) string
}

// Matches reports whether item is in category (or category is All/empty) and,
// when term is non-blank, whether any field contains term case-insensitively.
func (f Filter[T]) Matches(item T, category, term string) bool {
	if category != "" && category != All && f.Category != nil && f.Category(item) != category {
		return false
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range f.Fields {
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	return false
}

// Apply returns the matching items in their original order in a new slice.
func (f Filter[T]) Apply(items []T, category, term string) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if f.Matches(item, category, term) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

type Count struct {
	Category string
	Count    int
}

// Counts rescans items once per category. The first entry is always All with
// the full collection size.
func (f Filter[T]) Counts(items []T, categories []string) []Count {
	counts := make([]Count, 0, len(categories)+1)
	counts = append(counts, Count{Category: All, Count: len(items)})
	for _, category := range categories {
		n := 0
		for _, item := range items {
			if f.Category != nil && f.Category(item) == category {
				n++
			}
		}
		counts = append(counts, Count{Category: category, Count: n})
	}
	return counts
}

// NormalizeCategory returns category when it is one of allowed, else All.
func NormalizeCategory(category string, allowed []string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	for _, candidate := range allowed {
		if candidate == category {
			return category
		}
	}
	return All
}
