package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redfragances/internal/domain"
)

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func fixture() []domain.Product {
	return []domain.Product{
		{ID: "a", Brand: "Chanel", Name: "Bleu", Price: 180, Family: "Fresco", Category: domain.CategoryMen},
		{ID: "b", Brand: "Chanel", Name: "Coco", Price: 190, Family: "Oriental", Category: domain.CategoryWomen, IsNew: true},
		{ID: "c", Brand: "Dior", Name: "Sauvage", Price: 160, Family: "Fresco", Category: domain.CategoryMen, IsNew: true},
		{ID: "d", Brand: "Le Labo", Name: "Chanel Tribute", Price: 300, DiscountPrice: domain.Int64(150), Family: "Amaderado", Category: domain.CategoryMen},
		{ID: "e", Brand: "Byredo", Name: "Gypsy Water", Price: 250, Family: "Amaderado", Category: domain.CategoryUnisex},
	}
}

func TestQuery_CategoryAndSearchConjunction(t *testing.T) {
	got := Query(fixture(), Spec{Category: domain.CategoryMen, Search: "CHANEL"})
	assert.ElementsMatch(t, []string{"a", "d"}, ids(got))
}

func TestQuery_UnisexShowsEverything(t *testing.T) {
	assert.Len(t, Query(fixture(), Spec{Category: domain.CategoryUnisex}), 5)
	assert.Len(t, Query(fixture(), Spec{}), 5)
}

func TestQuery_Women(t *testing.T) {
	assert.Equal(t, []string{"b"}, ids(Query(fixture(), Spec{Category: domain.CategoryWomen})))
}

func TestQuery_SidebarFilters(t *testing.T) {
	got := Query(fixture(), Spec{Brands: []string{"chanel", "Dior"}, Sort: SortPriceAsc})
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))

	got = Query(fixture(), Spec{Families: []string{"Amaderado"}, Sort: SortPriceAsc})
	assert.Equal(t, []string{"d", "e"}, ids(got))

	// list price (discount) is what the range checks
	got = Query(fixture(), Spec{Price: &PriceRange{Min: 150, Max: 180}, Sort: SortPriceAsc})
	assert.Equal(t, []string{"d", "c", "a"}, ids(got))
}

func TestQuery_SortByListPrice(t *testing.T) {
	got := Query(fixture(), Spec{Sort: SortPriceDesc})
	assert.Equal(t, []string{"e", "b", "a", "c", "d"}, ids(got))
}

func TestQuery_PriceSortIsStable(t *testing.T) {
	ps := []domain.Product{
		{ID: "x", Price: 100},
		{ID: "y", Price: 50},
		{ID: "z", Price: 100},
		{ID: "w", Price: 120, DiscountPrice: domain.Int64(100)},
	}
	assert.Equal(t, []string{"y", "x", "z", "w"}, ids(Query(ps, Spec{Sort: SortPriceAsc})))
	assert.Equal(t, []string{"x", "z", "w", "y"}, ids(Query(ps, Spec{Sort: SortPriceDesc})))
}

func TestQuery_NewestFirstStable(t *testing.T) {
	got := Query(fixture(), Spec{Sort: SortNewest})
	assert.Equal(t, []string{"b", "c", "a", "d", "e"}, ids(got))
}

func TestQuery_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := ids(in)
	_ = Query(in, Spec{Sort: SortPriceDesc})
	assert.Equal(t, before, ids(in))
}

func TestQuery_NoMatches(t *testing.T) {
	got := Query(fixture(), Spec{Search: "zzz"})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseLabels(t *testing.T) {
	c, ok := ParseCategory("Para Él")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryMen, c)

	c, ok = ParseCategory("para ella")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryWomen, c)

	c, ok = ParseCategory("")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryUnisex, c)

	_, ok = ParseCategory("kids")
	assert.False(t, ok)

	m, ok := ParseSortMode("Precio: Mayor a Menor")
	require.True(t, ok)
	assert.Equal(t, SortPriceDesc, m)

	m, ok = ParseSortMode("")
	require.True(t, ok)
	assert.Equal(t, SortNewest, m)

	_, ok = ParseSortMode("rating")
	assert.False(t, ok)
}

func TestFacetsOf(t *testing.T) {
	f := FacetsOf(fixture())
	assert.Equal(t, []string{"Byredo", "Chanel", "Dior", "Le Labo"}, f.Brands)
	assert.Equal(t, []string{"Amaderado", "Fresco", "Oriental"}, f.Families)
	assert.Equal(t, PriceRange{Min: 150, Max: 250}, f.Price)

	empty := FacetsOf(nil)
	assert.Empty(t, empty.Brands)
	assert.Equal(t, PriceRange{}, empty.Price)
}

func TestDefaults(t *testing.T) {
	ps := Defaults()
	require.NotEmpty(t, ps)
	seen := map[string]bool{}
	for _, p := range ps {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Brand)
		assert.NotEmpty(t, p.Image)
		assert.True(t, p.Category.Valid())
		if p.DiscountPrice != nil {
			assert.LessOrEqual(t, *p.DiscountPrice, p.Price)
		}
	}
	ps[0].Name = "changed"
	assert.NotEqual(t, "changed", Defaults()[0].Name)
}
