package view

import (
	"github.com/example/admin-dashboard/internal/readmodel"
)

type UserStats struct {
	TotalCount   int `json:"total_count"`
	Count        int `json:"count"`
	CompanyCount int `json:"company_count"`
	CityCount    int `json:"city_count"`
}

type UserView struct {
	Filter       ListFilter           `json:"filter"`
	Filtered     []readmodel.User     `json:"-"`
	Page         Page[readmodel.User] `json:"page"`
	Stats        UserStats            `json:"stats"`
	EmptyMessage string               `json:"empty_message,omitempty"`
}

// Users searches name, username, email, company name and city
// case-insensitively, and phone verbatim.
func Users(items []readmodel.User, f ListFilter) UserView {
	m := newMatcher(f.Search)
	filtered := filter(items, m, func(u readmodel.User) bool {
		return m.matchAny(u.Name, u.Username, u.Email, u.Company.Name, u.Address.City) ||
			m.verbatim(u.Phone)
	})

	companies := make(map[string]struct{})
	cities := make(map[string]struct{})
	for _, u := range filtered {
		companies[u.Company.Name] = struct{}{}
		cities[u.Address.City] = struct{}{}
	}

	v := UserView{
		Filter:   f,
		Filtered: filtered,
		Page:     Paginate(filtered, f.Page, f.PageSize),
		Stats: UserStats{
			TotalCount:   len(items),
			Count:        len(filtered),
			CompanyCount: len(companies),
			CityCount:    len(cities),
		},
	}
	if len(filtered) == 0 {
		if m.empty {
			v.EmptyMessage = "No users available in the system"
		} else {
			v.EmptyMessage = "Try adjusting your search terms"
		}
	}
	return v
}
