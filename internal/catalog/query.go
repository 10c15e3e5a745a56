// Package catalog derives the displayed product list from the catalog and the
// shopper's filter/sort selection.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"redfragances/internal/domain"
)

// SortMode order applied after filtering
type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
)

// PriceRange inclusive bounds on list price
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Contains reports whether price falls inside the range.
func (r PriceRange) Contains(price int64) bool {
	return price >= r.Min && price <= r.Max
}

// Spec filter/sort selection. Zero values impose no restriction; an empty
// Category or CategoryUnisex shows every product.
type Spec struct {
	Category domain.Category
	Search   string
	Brands   []string
	Families []string
	Price    *PriceRange
	Sort     SortMode
}

// Query filters products conjunctively and sorts the survivors stably.
// The input slice is never modified.
func Query(products []domain.Product, spec Spec) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(spec.Search))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !matchCategory(spec.Category, p.Category) {
			continue
		}
		if !matchSearch(search, p) {
			continue
		}
		if !inSet(spec.Brands, p.Brand) {
			continue
		}
		if !inSet(spec.Families, p.Family) {
			continue
		}
		if spec.Price != nil && !spec.Price.Contains(p.ListPrice()) {
			continue
		}
		out = append(out, p)
	}

	switch spec.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(a.ListPrice(), b.ListPrice())
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(b.ListPrice(), a.ListPrice())
		})
	default:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return rankNew(a) - rankNew(b)
		})
	}
	return out
}

// the Unisex tab is "everything", not "products tagged Unisex"
func matchCategory(selected, actual domain.Category) bool {
	switch selected {
	case domain.CategoryMen, domain.CategoryWomen:
		return actual == selected
	default:
		return true
	}
}

func matchSearch(lowered string, p domain.Product) bool {
	if lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), lowered) ||
		strings.Contains(strings.ToLower(p.Brand), lowered)
}

func inSet(allowed []string, v string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, v) {
			return true
		}
	}
	return false
}

func rankNew(p domain.Product) int {
	if p.IsNew {
		return 0
	}
	return 1
}
