// Package filter narrows the catalog by category and search term and builds
// search suggestions. Every function is a pure recompute over its input.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/utafrali/catalog-widget/internal/domain"
)

// ByCategory keeps products of the given category. AllCategories keeps
// everything.
func ByCategory(products []domain.Product, category string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category == domain.AllCategories || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// BySearch keeps products whose name, description, brand or specifications
// contain term, ignoring case. An empty term keeps everything. The term is
// not trimmed.
func BySearch(products []domain.Product, term string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	if term == "" {
		return append(out, products...)
	}

	m := newMatcher(term)
	for _, p := range products {
		if m.match(p.Name) || m.match(p.Description) || m.match(p.Brand) || m.match(p.Specifications) {
			out = append(out, p)
		}
	}
	return out
}

// Apply runs the category filter, then the search filter.
func Apply(products []domain.Product, f domain.FilterState) []domain.Product {
	return BySearch(ByCategory(products, f.Category), f.SearchTerm)
}

// Suggest returns up to limit distinct names, brands and categories that
// contain term, in catalog order. Each product contributes its name, then its
// brand, then its category. A value's kind is name if any product carries it
// as a name, else brand, else category. An empty term yields nothing.
func Suggest(products []domain.Product, term string, limit int) []domain.Suggestion {
	if term == "" || limit <= 0 {
		return nil
	}

	m := newMatcher(term)
	seen := make(map[string]struct{})
	var values []string
	add := func(v string) bool {
		if !m.match(v) {
			return false
		}
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
		values = append(values, v)
		return len(values) == limit
	}

collect:
	for _, p := range products {
		for _, v := range [...]string{p.Name, p.Brand, p.Category} {
			if add(v) {
				break collect
			}
		}
	}

	out := make([]domain.Suggestion, 0, len(values))
	for _, v := range values {
		out = append(out, domain.Suggestion{Value: v, Kind: kindOf(products, v)})
	}
	return out
}

func kindOf(products []domain.Product, value string) domain.SuggestionKind {
	for _, p := range products {
		if p.Name == value {
			return domain.SuggestionName
		}
	}
	for _, p := range products {
		if p.Brand == value {
			return domain.SuggestionBrand
		}
	}
	return domain.SuggestionCategory
}

// matcher does case-folded substring matching. A cases.Caser keeps state, so
// each matcher owns one and is not shared between goroutines.
type matcher struct {
	fold cases.Caser
	term string
}

func newMatcher(term string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.term = m.fold.String(term)
	return m
}

func (m *matcher) match(s string) bool {
	return s != "" && strings.Contains(m.fold.String(s), m.term)
}
