package view

// Page is one slice of a filtered collection plus the numbers a
// pagination widget needs.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	From       int  `json:"from"`
	To         int  `json:"to"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// Paginate slices items[(page-1)*pageSize : page*pageSize].
// A page size below 1 is clamped to 1. TotalPages is never below 1.
// Out-of-range pages yield an empty slice; correcting the page is the
// controller's job.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		HasPrev:    page > 1 && page <= totalPages,
		HasNext:    page >= 1 && page < totalPages,
	}
	if page < 1 {
		return p
	}

	start := (page - 1) * pageSize
	if start >= total {
		return p
	}
	end := min(start+pageSize, total)

	p.Items = items[start:end]
	p.From = start + 1
	p.To = end
	return p
}
