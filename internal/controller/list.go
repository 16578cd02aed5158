package controller

import (
	"github.com/example/admin-dashboard/internal/view"
	"github.com/pkg/errors"
)

var (
	ErrInvalidPageSize = errors.New("page size must be at least 1")
	ErrInvalidPage     = errors.New("page must be at least 1")
)

type Option func(*options)

type options struct {
	onPageChange func(page int)
}

// WithPageChange registers a hook fired after every explicit page change,
// e.g. to scroll the viewport back to the top.
func WithPageChange(fn func(page int)) Option {
	return func(o *options) {
		o.onPageChange = fn
	}
}

// List is the interaction state of a searchable, paginated table.
// Changing the search term or the page size always moves back to page 1.
type List struct {
	filter view.ListFilter
	opts   options
}

func NewList(opts ...Option) *List {
	l := &List{filter: view.DefaultListFilter()}
	for _, opt := range opts {
		opt(&l.opts)
	}
	return l
}

func (l *List) SetSearch(term string) {
	l.filter.Search = term
	l.filter.Page = 1
}

func (l *List) SetPageSize(size int) error {
	if size < 1 {
		return errors.Wrapf(ErrInvalidPageSize, "got %d", size)
	}
	l.filter.PageSize = size
	l.filter.Page = 1
	return nil
}

// SetPage is the only setter that leaves the page where it is told to
func (l *List) SetPage(page int) error {
	if page < 1 {
		return errors.Wrapf(ErrInvalidPage, "got %d", page)
	}
	l.filter.Page = page
	if l.opts.onPageChange != nil {
		l.opts.onPageChange(page)
	}
	return nil
}

func (l *List) State() view.ListFilter {
	return l.filter
}
