package controller

import (
	"math"
	"time"

	"github.com/example/admin-dashboard/internal/view"
	"github.com/pkg/errors"
)

var ErrInvalidPrice = errors.New("price must be a finite, non-negative number")

// ValidatePrice rejects ceilings that no comparison could honour
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return errors.Wrapf(ErrInvalidPrice, "got %v", price)
	}
	return nil
}

// Products extends List with category, ordering and the price ceiling.
// Every setter other than SetPage resets the page to 1.
type Products struct {
	List
	category string
	sort     view.SortKey
	priceMin float64
	priceMax float64
	loadedAt time.Time
}

func NewProducts(opts ...Option) *Products {
	f := view.DefaultProductFilter()
	p := &Products{
		category: f.Category,
		sort:     f.Sort,
		priceMin: f.PriceMin,
		priceMax: f.PriceMax,
	}
	p.filter = f.ListFilter
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

func (p *Products) SetCategory(category string) {
	if category == "" {
		category = view.CategoryAll
	}
	p.category = category
	p.filter.Page = 1
}

func (p *Products) SetSort(key view.SortKey) {
	p.sort = key
	p.filter.Page = 1
}

// SetMaxPrice replaces only the ceiling; the floor stays where it is.
func (p *Products) SetMaxPrice(ceiling float64) error {
	if err := ValidatePrice(ceiling); err != nil {
		return err
	}
	p.priceMax = ceiling
	p.filter.Page = 1
	return nil
}

// ResetPriceRange restores the full [0, maxPrice] range
func (p *Products) ResetPriceRange(maxPrice float64) {
	p.priceMin = 0
	p.priceMax = maxPrice
	p.filter.Page = 1
}

// ClearFilters drops category, ordering and price constraints. The search
// term and page size are kept.
func (p *Products) ClearFilters(maxPrice float64) {
	p.category = view.CategoryAll
	p.sort = view.SortDefault
	p.ResetPriceRange(maxPrice)
}

// DataLoaded raises the ceiling from its initial sentinel to the highest
// price of a freshly loaded, non-empty catalog. Each load, identified by
// loadedAt, is considered once; a ceiling the user moved is left alone.
func (p *Products) DataLoaded(maxPrice float64, count int, loadedAt time.Time) {
	if loadedAt.Equal(p.loadedAt) {
		return
	}
	p.loadedAt = loadedAt
	if count > 0 && p.priceMax == view.DefaultPriceCeiling {
		p.priceMin = 0
		p.priceMax = maxPrice
		p.filter.Page = 1
	}
}

func (p *Products) State() view.ProductFilter {
	return view.ProductFilter{
		ListFilter: p.filter,
		Category:   p.category,
		Sort:       p.sort,
		PriceMin:   p.priceMin,
		PriceMax:   p.priceMax,
	}
}
