package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/admin-dashboard/internal/resource"
	"github.com/example/admin-dashboard/internal/view"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
)

const maxCellWidth = 40

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func caption[T any](p view.Page[T]) string {
	return fmt.Sprintf("Showing %d to %d of %d results (page %d of %d)", p.From, p.To, p.TotalItems, p.Page, p.TotalPages)
}

func renderEmpty(w io.Writer, message string) {
	if message != "" {
		fmt.Fprintf(w, "%s\n", message)
	}
}

func renderProducts(w io.Writer, v view.ProductView) {
	s := v.Stats
	fmt.Fprintf(w, "Products: %d of %d | Avg price $%.2f | Avg rating %.1f | Categories %d\n",
		s.Count, s.TotalCount, s.AveragePrice, s.AverageRating, s.CategoryCount)

	f := v.Filter
	var active []string
	if f.Category != "" && f.Category != view.CategoryAll {
		active = append(active, f.Category)
	}
	if f.Sort != "" && f.Sort != view.SortDefault {
		active = append(active, strings.Replace(string(f.Sort), "-", ": ", 1))
	}
	if f.PriceMax < v.MaxPrice {
		active = append(active, fmt.Sprintf("Under $%g", f.PriceMax))
	}
	if len(active) > 0 {
		fmt.Fprintf(w, "Active filters: %s\n", strings.Join(active, ", "))
	}

	if len(v.Page.Items) == 0 {
		renderEmpty(w, v.EmptyMessage)
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Title", "Category", "Price", "Rating"})
	for _, p := range v.Page.Items {
		t.AppendRow(table.Row{
			p.ID,
			p.Title,
			p.Category,
			fmt.Sprintf("$%.2f", p.Price),
			fmt.Sprintf("%s (%d)", p.Rating.Display(), p.Rating.Count),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: maxCellWidth, WidthMaxEnforcer: text.Trim},
		{Name: "Price", Align: text.AlignRight},
	})
	t.SetCaption(caption(v.Page))
	t.Render()
}

func renderUsers(w io.Writer, v view.UserView) {
	s := v.Stats
	fmt.Fprintf(w, "Users: %d of %d | Companies %d | Cities %d\n", s.Count, s.TotalCount, s.CompanyCount, s.CityCount)

	if len(v.Page.Items) == 0 {
		renderEmpty(w, v.EmptyMessage)
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Username", "Email", "Phone", "City", "Company"})
	for _, u := range v.Page.Items {
		t.AppendRow(table.Row{u.ID, u.Name, "@" + u.Username, u.Email, u.Phone, u.Address.City, u.Company.Name})
	}
	t.SetCaption(caption(v.Page))
	t.Render()
}

func renderMedicines(w io.Writer, v view.MedicineView) {
	s := v.Stats
	fmt.Fprintf(w, "Medicines: %d of %d | Prescription %d | Expired %d | Expiring soon %d\n",
		s.Count, s.TotalCount, s.PrescriptionCount, s.ExpiredCount, s.ExpiringSoonCount)

	if len(v.Page.Items) == 0 {
		renderEmpty(w, v.EmptyMessage)
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Generic", "Category", "Manufacturer", "Price", "Stock", "Expiry", "Rx"})
	for _, m := range v.Page.Items {
		rx := ""
		if m.RequiresPrescription {
			rx = "Rx"
		}
		t.AppendRow(table.Row{
			m.Name,
			m.GenericName,
			m.Category,
			m.Manufacturer,
			fmt.Sprintf("$%.2f", m.Price),
			fmt.Sprintf("%d (%s)", m.Stock, m.StockLevel),
			expiryBadge(m),
			rx,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Generic", WidthMax: maxCellWidth, WidthMaxEnforcer: text.Trim},
		{Name: "Price", Align: text.AlignRight},
	})
	t.SetCaption(caption(v.Page))
	t.Render()
}

func expiryBadge(m view.MedicineRow) string {
	date := m.ExpiryDate.String()
	switch {
	case m.Expired:
		return date + " Expired"
	case m.ExpiringSoon:
		return fmt.Sprintf("%s Expiring Soon (%dd)", date, m.DaysUntilExpiry)
	default:
		return date
	}
}

func renderResources(w io.Writer, sums []resource.Summary) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Resource", "Status", "Items", "Fetched", "Error"})
	for _, s := range sums {
		fetched := "-"
		if !s.FetchedAt.IsZero() {
			fetched = s.FetchedAt.Format("15:04:05")
		}
		t.AppendRow(table.Row{s.Name, s.Status.String(), s.Count, fetched, s.Error})
	}
	t.Render()
}

// renderFailure shows the error alone, never a partial table
func renderFailure(w io.Writer, name string, err error) {
	var fe *resource.FetchError
	if errors.As(err, &fe) {
		fmt.Fprintf(w, "Error Loading %s\n%s\n", title(name), fe.UserMessage())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
