package view

import (
	"cmp"
	"math"
	"slices"
	"sort"

	"github.com/example/admin-dashboard/internal/readmodel"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ProductStats are computed over the filtered set, before pagination
type ProductStats struct {
	TotalCount    int     `json:"total_count"`
	Count         int     `json:"count"`
	AveragePrice  float64 `json:"average_price"`
	AverageRating float64 `json:"average_rating"`
	CategoryCount int     `json:"category_count"`
}

// ProductView is the render-ready result of the products pipeline
type ProductView struct {
	Filter           ProductFilter           `json:"filter"`
	Filtered         []readmodel.Product     `json:"-"`
	Page             Page[readmodel.Product] `json:"page"`
	Stats            ProductStats            `json:"stats"`
	Categories       []string                `json:"categories"`
	MaxPrice         float64                 `json:"max_price"`
	HasActiveFilters bool                    `json:"has_active_filters"`
	EmptyMessage     string                  `json:"empty_message,omitempty"`
}

// Products runs search, category, price range, sort, stats and pagination
// over items, in that order. items is never modified.
func Products(items []readmodel.Product, f ProductFilter) ProductView {
	m := newMatcher(f.Search)
	filtered := filter(items, m, func(p readmodel.Product) bool {
		return m.matchAny(p.Title, p.Description, p.Category)
	})

	narrowed := make([]readmodel.Product, 0, len(filtered))
	for _, p := range filtered {
		if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
			continue
		}
		if p.Price < f.PriceMin || p.Price > f.PriceMax {
			continue
		}
		narrowed = append(narrowed, p)
	}

	sortProducts(narrowed, f.Sort)

	maxPrice := MaxPrice(items)
	v := ProductView{
		Filter:     f,
		Filtered:   narrowed,
		Page:       Paginate(narrowed, f.Page, f.PageSize),
		Stats:      productStats(items, narrowed),
		Categories: Categories(items),
		MaxPrice:   maxPrice,
		HasActiveFilters: (f.Category != "" && f.Category != CategoryAll) ||
			(f.Sort != "" && f.Sort != SortDefault) ||
			f.PriceMax < maxPrice,
	}
	if len(narrowed) == 0 {
		if !m.empty || (f.Category != "" && f.Category != CategoryAll) || f.PriceMax < maxPrice {
			v.EmptyMessage = "Try adjusting your filters"
		} else {
			v.EmptyMessage = "No products available in the catalog"
		}
	}
	return v
}

// sortProducts orders in place with a stable sort; unknown keys keep input order
func sortProducts(items []readmodel.Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(items, func(a, b readmodel.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(items, func(a, b readmodel.Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortRatingAsc:
		slices.SortStableFunc(items, func(a, b readmodel.Product) int { return cmp.Compare(a.Rating.Rate, b.Rating.Rate) })
	case SortRatingDesc:
		slices.SortStableFunc(items, func(a, b readmodel.Product) int { return cmp.Compare(b.Rating.Rate, a.Rating.Rate) })
	case SortTitleAsc, SortTitleDesc:
		// collators keep internal buffers, one per call
		c := collate.New(language.English)
		if key == SortTitleAsc {
			slices.SortStableFunc(items, func(a, b readmodel.Product) int { return c.CompareString(a.Title, b.Title) })
		} else {
			slices.SortStableFunc(items, func(a, b readmodel.Product) int { return c.CompareString(b.Title, a.Title) })
		}
	}
}

func productStats(all, filtered []readmodel.Product) ProductStats {
	stats := ProductStats{
		TotalCount: len(all),
		Count:      len(filtered),
	}
	if len(filtered) == 0 {
		return stats
	}

	priceSum := decimal.Zero
	rateSum := decimal.Zero
	categories := make(map[string]struct{})
	for _, p := range filtered {
		priceSum = priceSum.Add(decimal.NewFromFloat(p.Price))
		rateSum = rateSum.Add(decimal.NewFromFloat(p.Rating.Rate))
		categories[p.Category] = struct{}{}
	}
	n := decimal.NewFromInt(int64(len(filtered)))
	stats.AveragePrice = priceSum.Div(n).InexactFloat64()
	stats.AverageRating = rateSum.Div(n).InexactFloat64()
	stats.CategoryCount = len(categories)
	return stats
}

// Categories returns the distinct categories of the raw collection, sorted
func Categories(items []readmodel.Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range items {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// MaxPrice is the ceiling of the highest price, or DefaultPriceCeiling
// when there is nothing to look at
func MaxPrice(items []readmodel.Product) float64 {
	if len(items) == 0 {
		return DefaultPriceCeiling
	}
	highest := items[0].Price
	for _, p := range items[1:] {
		highest = max(highest, p.Price)
	}
	return math.Ceil(highest)
}
