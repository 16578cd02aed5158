package readmodel

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Product is a retail catalog entry as served by the products API
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// Rating is stored at full precision and displayed at one decimal place
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Display formats the rate the way tables show it
func (r Rating) Display() string {
	return fmt.Sprintf("%.1f", r.Rate)
}

// User is a directory record as served by the users API
type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Company  Company `json:"company"`
}

type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     Geo    `json:"geo"`
}

type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// Medicine is a pharmacy inventory item as served by the medicines API
type Medicine struct {
	ID                   string    `json:"_id"`
	Name                 string    `json:"name"`
	GenericName          string    `json:"genericName"`
	Description          string    `json:"description"`
	Dosage               string    `json:"dosage"`
	Form                 string    `json:"form"`
	Manufacturer         string    `json:"manufacturer"`
	Price                float64   `json:"price"`
	RequiresPrescription bool      `json:"requiresPrescription"`
	Stock                int       `json:"stock"`
	Category             string    `json:"category"`
	ExpiryDate           Date      `json:"expiryDate"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	IsActive             *bool     `json:"isActive,omitempty"`
}

// MedicineEnvelope wraps the medicines collection on the wire
type MedicineEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

const dateLayout = "2006-01-02"

// Date is a calendar date that also accepts full RFC 3339 timestamps
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in t's location
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// String renders the date the way the medicines table shows it
func (d Date) String() string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("Jan 2, 2006")
}

// Resource names, also used as cache keys and view kinds
const (
	ResourceProducts  = "products"
	ResourceUsers     = "users"
	ResourceMedicines = "medicines"
)

// Resources lists every collection the dashboard reads
var Resources = []string{ResourceProducts, ResourceUsers, ResourceMedicines}
