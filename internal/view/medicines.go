package view

import (
	"math"
	"time"

	"github.com/example/admin-dashboard/internal/readmodel"
)

// ExpiringSoonDays is the horizon of the expiring-soon badge
const ExpiringSoonDays = 90

type StockLevel string

const (
	StockHigh   StockLevel = "high"
	StockMedium StockLevel = "medium"
	StockLow    StockLevel = "low"
)

func StockLevelOf(stock int) StockLevel {
	switch {
	case stock > 50:
		return StockHigh
	case stock > 20:
		return StockMedium
	default:
		return StockLow
	}
}

// MedicineRow carries the per-row flags derived from the wall clock
type MedicineRow struct {
	readmodel.Medicine
	Expired         bool       `json:"expired"`
	ExpiringSoon    bool       `json:"expiring_soon"`
	DaysUntilExpiry int        `json:"days_until_expiry"`
	StockLevel      StockLevel `json:"stock_level"`
}

type MedicineStats struct {
	TotalCount        int `json:"total_count"`
	Count             int `json:"count"`
	PrescriptionCount int `json:"prescription_count"`
	ExpiredCount      int `json:"expired_count"`
	ExpiringSoonCount int `json:"expiring_soon_count"`
}

type MedicineView struct {
	Filter       ListFilter        `json:"filter"`
	Filtered     []MedicineRow     `json:"-"`
	Page         Page[MedicineRow] `json:"page"`
	Stats        MedicineStats     `json:"stats"`
	EmptyMessage string            `json:"empty_message,omitempty"`
}

// DaysUntil rounds the distance from now to expiry up to whole days
func DaysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// ExpiryFlags reports expired (expiry < now) and expiring soon
// (0 < days until expiry <= 90). A zero expiry carries no flags.
func ExpiryFlags(expiry, now time.Time) (expired, soon bool, days int) {
	if expiry.IsZero() {
		return false, false, 0
	}
	days = DaysUntil(expiry, now)
	expired = expiry.Before(now)
	soon = days > 0 && days <= ExpiringSoonDays
	return expired, soon, days
}

// Medicines searches name, generic name, category and manufacturer and
// derives the expiry flags against now. Callers pass the current time on
// every evaluation; flags are never cached.
func Medicines(items []readmodel.Medicine, f ListFilter, now time.Time) MedicineView {
	m := newMatcher(f.Search)
	filtered := filter(items, m, func(med readmodel.Medicine) bool {
		return m.matchAny(med.Name, med.GenericName, med.Category, med.Manufacturer)
	})

	stats := MedicineStats{
		TotalCount: len(items),
		Count:      len(filtered),
	}
	rows := make([]MedicineRow, 0, len(filtered))
	for _, med := range filtered {
		expired, soon, days := ExpiryFlags(med.ExpiryDate.Time, now)
		rows = append(rows, MedicineRow{
			Medicine:        med,
			Expired:         expired,
			ExpiringSoon:    soon,
			DaysUntilExpiry: days,
			StockLevel:      StockLevelOf(med.Stock),
		})
		if med.RequiresPrescription {
			stats.PrescriptionCount++
		}
		if expired {
			stats.ExpiredCount++
		}
		if soon {
			stats.ExpiringSoonCount++
		}
	}

	v := MedicineView{
		Filter:   f,
		Filtered: rows,
		Page:     Paginate(rows, f.Page, f.PageSize),
		Stats:    stats,
	}
	if len(rows) == 0 {
		if m.empty {
			v.EmptyMessage = "No medicines available in the inventory"
		} else {
			v.EmptyMessage = "Try adjusting your search terms"
		}
	}
	return v
}
