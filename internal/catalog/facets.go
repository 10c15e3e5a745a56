package catalog

import (
	"slices"

	"redfragances/internal/domain"
)

// Facets values available to the sidebar filters
type Facets struct {
	Brands   []string   `json:"brands"`
	Families []string   `json:"families"`
	Price    PriceRange `json:"price"`
}

// FacetsOf collects sorted unique brands and families and the list-price span.
func FacetsOf(products []domain.Product) Facets {
	f := Facets{Brands: []string{}, Families: []string{}}
	for i, p := range products {
		if p.Brand != "" && !slices.Contains(f.Brands, p.Brand) {
			f.Brands = append(f.Brands, p.Brand)
		}
		if p.Family != "" && !slices.Contains(f.Families, p.Family) {
			f.Families = append(f.Families, p.Family)
		}
		lp := p.ListPrice()
		if i == 0 || lp < f.Price.Min {
			f.Price.Min = lp
		}
		if i == 0 || lp > f.Price.Max {
			f.Price.Max = lp
		}
	}
	slices.Sort(f.Brands)
	slices.Sort(f.Families)
	return f
}
