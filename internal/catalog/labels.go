package catalog

import (
	"strings"

	"redfragances/internal/domain"
)

// storefront tab and dropdown labels accepted alongside the API names
var (
	categoryLabels = map[string]domain.Category{
		"men":       domain.CategoryMen,
		"para él":   domain.CategoryMen,
		"para el":   domain.CategoryMen,
		"women":     domain.CategoryWomen,
		"para ella": domain.CategoryWomen,
		"unisex":    domain.CategoryUnisex,
	}

	sortLabels = map[string]SortMode{
		"newest":                SortNewest,
		"novedades":             SortNewest,
		"price_asc":             SortPriceAsc,
		"precio: menor a mayor": SortPriceAsc,
		"price_desc":            SortPriceDesc,
		"precio: mayor a menor": SortPriceDesc,
	}
)

// ParseCategory maps a tab label or category name to a Category.
// Empty input selects Unisex.
func ParseCategory(s string) (domain.Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return domain.CategoryUnisex, true
	}
	c, ok := categoryLabels[s]
	return c, ok
}

// ParseSortMode maps a sort label to a SortMode. Empty input selects Newest.
func ParseSortMode(s string) (SortMode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortNewest, true
	}
	m, ok := sortLabels[s]
	return m, ok
}
