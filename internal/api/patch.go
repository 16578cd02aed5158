package api

import (
	"context"

	"github.com/example/admin-dashboard/internal/controller"
	"github.com/example/admin-dashboard/internal/view"
	"github.com/pkg/errors"
)

var errProductsOnly = errors.New("filter is only available for products")

// viewPatch is the set of interactions one request applies to a view.
// Absent fields leave the state alone.
type viewPatch struct {
	Search       *string  `json:"search" form:"search"`
	Category     *string  `json:"category" form:"category"`
	Sort         *string  `json:"sort" form:"sort"`
	MaxPrice     *float64 `json:"max_price" form:"max_price"`
	ResetPrice   bool     `json:"reset_price" form:"reset_price"`
	ClearFilters bool     `json:"clear_filters" form:"clear_filters"`
	PageSize     *int     `json:"page_size" form:"page_size"`
	Page         *int     `json:"page" form:"page"`
}

func (p viewPatch) productFields() bool {
	return p.Category != nil || p.Sort != nil || p.MaxPrice != nil || p.ResetPrice || p.ClearFilters
}

func (p viewPatch) filterFields() bool {
	return p.Search != nil || p.PageSize != nil || p.productFields()
}

// resolved holds the values a patch needs that can fail to produce
type resolved struct {
	sort    view.SortKey
	ceiling float64
	page    bool
}

// resolve checks every field and fetches the catalog ceiling when a reset
// needs it. Nothing on the view is touched.
func (p viewPatch) resolve(ctx context.Context, v *controller.View, maxPrice func(context.Context) (float64, error), pageAfterFilters bool) (resolved, error) {
	var r resolved
	if v.Products() == nil && p.productFields() {
		return r, errors.Wrapf(errProductsOnly, "resource %s", v.Resource)
	}
	if p.PageSize != nil && *p.PageSize < 1 {
		return r, errors.Wrapf(controller.ErrInvalidPageSize, "got %d", *p.PageSize)
	}
	if p.Sort != nil {
		key, err := view.ParseSortKey(*p.Sort)
		if err != nil {
			return r, err
		}
		r.sort = key
	}
	if p.MaxPrice != nil {
		if err := controller.ValidatePrice(*p.MaxPrice); err != nil {
			return r, err
		}
	}

	r.page = p.Page != nil && (pageAfterFilters || !p.filterFields())
	if r.page && *p.Page < 1 {
		return r, errors.Wrapf(controller.ErrInvalidPage, "got %d", *p.Page)
	}

	if p.ResetPrice || p.ClearFilters {
		ceiling, err := maxPrice(ctx)
		if err != nil {
			return r, err
		}
		r.ceiling = ceiling
	}
	return r, nil
}

// apply runs the filter setters first and the page last. When pageAfterFilters
// is false an explicit page is dropped as soon as any filter changes, so
// the result always starts on page 1. A patch that fails leaves the view
// as it was.
func (p viewPatch) apply(ctx context.Context, v *controller.View, maxPrice func(context.Context) (float64, error), pageAfterFilters bool) error {
	r, err := p.resolve(ctx, v, maxPrice, pageAfterFilters)
	if err != nil {
		return err
	}

	list := v.List()
	if p.Search != nil {
		list.SetSearch(*p.Search)
	}
	if p.PageSize != nil {
		if err := list.SetPageSize(*p.PageSize); err != nil {
			return err
		}
	}

	if products := v.Products(); products != nil {
		if p.Category != nil {
			products.SetCategory(*p.Category)
		}
		if p.Sort != nil {
			products.SetSort(r.sort)
		}
		if p.ClearFilters {
			products.ClearFilters(r.ceiling)
		} else if p.ResetPrice {
			products.ResetPriceRange(r.ceiling)
		}
		if p.MaxPrice != nil {
			if err := products.SetMaxPrice(*p.MaxPrice); err != nil {
				return err
			}
		}
	}

	if r.page {
		return list.SetPage(*p.Page)
	}
	return nil
}
