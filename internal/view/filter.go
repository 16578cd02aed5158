package view

import (
	"github.com/pkg/errors"
)

const (
	// CategoryAll disables the category filter
	CategoryAll = "all"
	// DefaultPriceCeiling is the price ceiling before any data is known
	DefaultPriceCeiling = 1000
)

// SortKey selects the single active product ordering
type SortKey string

const (
	SortDefault    SortKey = "default"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingDesc SortKey = "rating-desc"
	SortRatingAsc  SortKey = "rating-asc"
	SortTitleAsc   SortKey = "title-asc"
	SortTitleDesc  SortKey = "title-desc"
)

// SortKeys lists the keys in the order the sort selector offers them
var SortKeys = []SortKey{
	SortDefault, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortRatingAsc, SortTitleAsc, SortTitleDesc,
}

var ErrUnknownSortKey = errors.New("unknown sort key")

func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortDefault, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return SortDefault, errors.Wrapf(ErrUnknownSortKey, "%q", s)
}

// ListFilter is the view state shared by every table
type ListFilter struct {
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// ProductFilter adds the product-only predicates and ordering
type ProductFilter struct {
	ListFilter
	Category string  `json:"category"`
	Sort     SortKey `json:"sort"`
	PriceMin float64 `json:"price_min"`
	PriceMax float64 `json:"price_max"`
}

// DefaultPageSize is the page size a fresh view starts with
const DefaultPageSize = 10

// PageSizes are the page sizes the page-size selector offers
var PageSizes = []int{10, 20, 50, 100}

func DefaultListFilter() ListFilter {
	return ListFilter{Page: 1, PageSize: DefaultPageSize}
}

func DefaultProductFilter() ProductFilter {
	return ProductFilter{
		ListFilter: DefaultListFilter(),
		Category:   CategoryAll,
		Sort:       SortDefault,
		PriceMin:   0,
		PriceMax:   DefaultPriceCeiling,
	}
}
