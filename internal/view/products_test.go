package view

import (
	"strings"
	"testing"

	"github.com/example/admin-dashboard/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []readmodel.Product {
	return []readmodel.Product{
		{ID: 1, Title: "Fjallraven Backpack", Price: 109.95, Description: "Your perfect pack for everyday use", Category: "men's clothing", Rating: readmodel.Rating{Rate: 3.9, Count: 120}},
		{ID: 2, Title: "Mens Casual T-Shirt", Price: 22.3, Description: "Slim-fitting style", Category: "men's clothing", Rating: readmodel.Rating{Rate: 4.1, Count: 259}},
		{ID: 3, Title: "gold ring", Price: 168, Description: "Classic created wedding ring", Category: "jewelery", Rating: readmodel.Rating{Rate: 3.9, Count: 70}},
		{ID: 4, Title: "WD 2TB Elements", Price: 64, Description: "USB 3.0 and USB 2.0 compatibility", Category: "electronics", Rating: readmodel.Rating{Rate: 3.3, Count: 203}},
		{ID: 5, Title: "Rain Jacket", Price: 39.99, Description: "Lightweight BACKPACKING shell", Category: "women's clothing", Rating: readmodel.Rating{Rate: 3.8, Count: 679}},
	}
}

func defaultProductFilter() ProductFilter {
	f := DefaultProductFilter()
	f.PriceMax = 200
	return f
}

func ids(items []readmodel.Product) []int {
	out := make([]int, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

// ============================================
// Search
// ============================================

func TestProducts_SearchMatchesDesignatedFieldsCaseInsensitively(t *testing.T) {
	f := defaultProductFilter()
	f.Search = "BackPack"

	v := Products(testProducts(), f)

	assert.Equal(t, []int{1, 5}, ids(v.Filtered))
	for _, p := range v.Filtered {
		hay := strings.ToLower(p.Title + "|" + p.Description + "|" + p.Category)
		assert.Contains(t, hay, "backpack")
	}
}

func TestProducts_SearchCategoryField(t *testing.T) {
	f := defaultProductFilter()
	f.Search = "jewel"

	v := Products(testProducts(), f)

	assert.Equal(t, []int{3}, ids(v.Filtered))
}

func TestProducts_WhitespaceSearchIsNoOp(t *testing.T) {
	for _, term := range []string{"", " ", "\t  "} {
		f := defaultProductFilter()
		f.Search = term

		v := Products(testProducts(), f)

		assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(v.Filtered), "term %q", term)
	}
}

// ============================================
// Structured filters
// ============================================

func TestProducts_CategoryFilterExactMatch(t *testing.T) {
	f := defaultProductFilter()
	f.Category = "men's clothing"

	v := Products(testProducts(), f)

	assert.Equal(t, []int{1, 2}, ids(v.Filtered))
	assert.True(t, v.HasActiveFilters)
}

func TestProducts_CategoryAllDisablesFilter(t *testing.T) {
	f := defaultProductFilter()
	f.Category = CategoryAll

	v := Products(testProducts(), f)

	assert.Len(t, v.Filtered, 5)
}

func TestProducts_PriceRangeInclusive(t *testing.T) {
	f := defaultProductFilter()
	f.PriceMin = 22.3
	f.PriceMax = 64

	v := Products(testProducts(), f)

	assert.Equal(t, []int{2, 4, 5}, ids(v.Filtered))
}

// ============================================
// Sort
// ============================================

func TestProducts_SortPriceAscending(t *testing.T) {
	items := []readmodel.Product{{ID: 1, Price: 10}, {ID: 2, Price: 30}, {ID: 3, Price: 20}}
	f := defaultProductFilter()
	f.Sort = SortPriceAsc

	v := Products(items, f)

	prices := make([]float64, 0, 3)
	for _, p := range v.Filtered {
		prices = append(prices, p.Price)
	}
	assert.Equal(t, []float64{10, 20, 30}, prices)
}

func TestProducts_SortKeys(t *testing.T) {
	cases := map[SortKey][]int{
		SortDefault:    {1, 2, 3, 4, 5},
		SortPriceAsc:   {2, 5, 4, 1, 3},
		SortPriceDesc:  {3, 1, 4, 5, 2},
		SortRatingAsc:  {4, 5, 1, 3, 2},
		SortRatingDesc: {2, 1, 3, 5, 4},
		SortTitleAsc:   {1, 3, 2, 5, 4},
		SortTitleDesc:  {4, 5, 2, 3, 1},
	}

	for key, expected := range cases {
		t.Run(string(key), func(t *testing.T) {
			f := defaultProductFilter()
			f.Sort = key
			assert.Equal(t, expected, ids(Products(testProducts(), f).Filtered))
		})
	}
}

func TestProducts_SortIsStableAndIdempotent(t *testing.T) {
	for _, key := range SortKeys {
		f := defaultProductFilter()
		f.Sort = key

		once := Products(testProducts(), f).Filtered
		twice := Products(once, f).Filtered

		assert.Equal(t, ids(once), ids(twice), "key %s", key)
	}

	// equal ratings keep input order
	f := defaultProductFilter()
	f.Sort = SortRatingDesc
	got := ids(Products(testProducts(), f).Filtered)
	assert.Equal(t, []int{1, 3}, []int{got[1], got[2]})
}

func TestProducts_UnknownSortKeyKeepsOrder(t *testing.T) {
	f := defaultProductFilter()
	f.Sort = "popularity"

	v := Products(testProducts(), f)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(v.Filtered))
}

func TestProducts_DoesNotMutateInput(t *testing.T) {
	items := testProducts()
	f := defaultProductFilter()
	f.Sort = SortPriceDesc

	_ = Products(items, f)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(items))
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("rating-desc")
	require.NoError(t, err)
	assert.Equal(t, SortRatingDesc, k)

	k, err = ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortDefault, k)

	_, err = ParseSortKey("cheapest")
	assert.ErrorIs(t, err, ErrUnknownSortKey)
}

// ============================================
// Stats and pagination
// ============================================

func TestProducts_StatsComputedOverFilteredSet(t *testing.T) {
	f := defaultProductFilter()
	f.Category = "men's clothing"

	v := Products(testProducts(), f)

	assert.Equal(t, 5, v.Stats.TotalCount)
	assert.Equal(t, 2, v.Stats.Count)
	assert.InDelta(t, 66.125, v.Stats.AveragePrice, 1e-9)
	assert.InDelta(t, 4.0, v.Stats.AverageRating, 1e-9)
	assert.Equal(t, 1, v.Stats.CategoryCount)
}

func TestProducts_EmptyFilteredSetHasZeroStats(t *testing.T) {
	f := defaultProductFilter()
	f.Search = "no such product"

	v := Products(testProducts(), f)

	assert.Equal(t, 0, v.Stats.Count)
	assert.Equal(t, 0.0, v.Stats.AveragePrice)
	assert.Equal(t, 0.0, v.Stats.AverageRating)
	assert.Equal(t, 1, v.Page.TotalPages)
	assert.Empty(t, v.Page.Items)
	assert.Equal(t, "Try adjusting your filters", v.EmptyMessage)
}

func TestProducts_EmptyCatalogMessage(t *testing.T) {
	v := Products(nil, DefaultProductFilter())

	assert.Equal(t, "No products available in the catalog", v.EmptyMessage)
	assert.Equal(t, float64(DefaultPriceCeiling), v.MaxPrice)
	assert.Empty(t, v.Categories)
}

func TestProducts_PaginatesAfterSorting(t *testing.T) {
	f := defaultProductFilter()
	f.Sort = SortPriceAsc
	f.PageSize = 2
	f.Page = 2

	v := Products(testProducts(), f)

	assert.Equal(t, []int{4, 1}, ids(v.Page.Items))
	assert.Equal(t, 3, v.Page.TotalPages)
	assert.Equal(t, 5, v.Page.TotalItems)
}

func TestProducts_CategoriesAndMaxPrice(t *testing.T) {
	v := Products(testProducts(), defaultProductFilter())

	assert.Equal(t, []string{"electronics", "jewelery", "men's clothing", "women's clothing"}, v.Categories)
	assert.Equal(t, 168.0, v.MaxPrice)
	assert.Equal(t, 110.0, MaxPrice([]readmodel.Product{{Price: 109.95}}))
}

func TestProducts_HasActiveFilters(t *testing.T) {
	f := DefaultProductFilter()
	f.PriceMax = 168

	assert.False(t, Products(testProducts(), f).HasActiveFilters)

	f.Sort = SortTitleAsc
	assert.True(t, Products(testProducts(), f).HasActiveFilters)

	f.Sort = SortDefault
	f.PriceMax = 100
	assert.True(t, Products(testProducts(), f).HasActiveFilters)
}
