package query

import (
	"context"
	"time"

	"github.com/example/admin-dashboard/internal/controller"
	"github.com/example/admin-dashboard/internal/readmodel"
	"github.com/example/admin-dashboard/internal/resource"
	"github.com/example/admin-dashboard/internal/view"
	"github.com/pkg/errors"
)

var ErrUnknownResource = errors.New("unknown resource")

// Collection is the read side of one resource client
type Collection[T any] interface {
	Fetch(ctx context.Context) (resource.Collection[T], error)
	Refresh(ctx context.Context) (resource.Collection[T], error)
	Summary() resource.Summary
}

// Handler turns controller state into view results over the three
// collections. Failures stay isolated per resource.
type Handler struct {
	products  Collection[readmodel.Product]
	users     Collection[readmodel.User]
	medicines Collection[readmodel.Medicine]
	now       func() time.Time
}

func NewHandler(
	products Collection[readmodel.Product],
	users Collection[readmodel.User],
	medicines Collection[readmodel.Medicine],
) *Handler {
	return &Handler{
		products:  products,
		users:     users,
		medicines: medicines,
		now:       time.Now,
	}
}

// WithClock replaces the clock medicine flags are evaluated against
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Products fetches the catalog, lets the controller pick up the freshly
// discovered price ceiling and runs the products pipeline.
func (h *Handler) Products(ctx context.Context, c *controller.Products) (view.ProductView, error) {
	col, err := h.products.Fetch(ctx)
	if err != nil {
		return view.ProductView{}, err
	}
	c.DataLoaded(view.MaxPrice(col.Items), len(col.Items), col.FetchedAt)
	return view.Products(col.Items, c.State()), nil
}

// MaxPrice is the price ceiling of the current catalog
func (h *Handler) MaxPrice(ctx context.Context) (float64, error) {
	col, err := h.products.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	return view.MaxPrice(col.Items), nil
}

func (h *Handler) Users(ctx context.Context, c *controller.List) (view.UserView, error) {
	col, err := h.users.Fetch(ctx)
	if err != nil {
		return view.UserView{}, err
	}
	return view.Users(col.Items, c.State()), nil
}

// Medicines evaluates expiry flags against the clock on every call
func (h *Handler) Medicines(ctx context.Context, c *controller.List) (view.MedicineView, error) {
	col, err := h.medicines.Fetch(ctx)
	if err != nil {
		return view.MedicineView{}, err
	}
	return view.Medicines(col.Items, c.State(), h.now()), nil
}

// View computes the result for whichever resource v is bound to.
// The caller must hold v's lock.
func (h *Handler) View(ctx context.Context, v *controller.View) (any, error) {
	switch v.Resource {
	case readmodel.ResourceProducts:
		return h.Products(ctx, v.Products())
	case readmodel.ResourceUsers:
		return h.Users(ctx, v.List())
	case readmodel.ResourceMedicines:
		return h.Medicines(ctx, v.List())
	default:
		return nil, errors.Wrapf(ErrUnknownResource, "%q", v.Resource)
	}
}

// Refresh drops the cached copy of one resource and loads it again
func (h *Handler) Refresh(ctx context.Context, name string) error {
	var err error
	switch name {
	case readmodel.ResourceProducts:
		_, err = h.products.Refresh(ctx)
	case readmodel.ResourceUsers:
		_, err = h.users.Refresh(ctx)
	case readmodel.ResourceMedicines:
		_, err = h.medicines.Refresh(ctx)
	default:
		return errors.Wrapf(ErrUnknownResource, "%q", name)
	}
	return err
}

// Resources reports the observable state of every collection
func (h *Handler) Resources() []resource.Summary {
	return []resource.Summary{
		h.products.Summary(),
		h.users.Summary(),
		h.medicines.Summary(),
	}
}
