package controller

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/admin-dashboard/internal/readmodel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrViewNotFound    = errors.New("view not found")
	ErrUnknownResource = errors.New("unknown resource")
)

// View is one live table bound to a resource. Products views carry a
// *Products controller, users and medicines views a *List. Callers hold
// the view's lock while reading or changing its state.
type View struct {
	sync.Mutex

	ID        string
	Resource  string
	CreatedAt time.Time

	products *Products
	list     *List
	lastUsed atomic.Int64
}

// LastUsed is when the view was created or last looked up
func (v *View) LastUsed() time.Time {
	return time.Unix(0, v.lastUsed.Load())
}

func (v *View) touch(t time.Time) {
	v.lastUsed.Store(t.UnixNano())
}

// Products returns the controller of a products view, nil otherwise
func (v *View) Products() *Products {
	return v.products
}

// List returns the shared list controller of any view
func (v *View) List() *List {
	if v.products != nil {
		return &v.products.List
	}
	return v.list
}

// Registry keeps the live views until they are deleted or evicted as idle
type Registry struct {
	mu    sync.RWMutex
	views map[string]*View
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		views: make(map[string]*View),
		now:   time.Now,
	}
}

// NewView builds a view that is not tracked by any registry
func NewView(resource string, opts ...Option) (*View, error) {
	if !slices.Contains(readmodel.Resources, resource) {
		return nil, errors.Wrapf(ErrUnknownResource, "%q", resource)
	}

	v := &View{
		ID:        uuid.NewString(),
		Resource:  resource,
		CreatedAt: time.Now(),
	}
	if resource == readmodel.ResourceProducts {
		v.products = NewProducts(opts...)
	} else {
		v.list = NewList(opts...)
	}
	return v, nil
}

func (r *Registry) Create(resource string) (*View, error) {
	v, err := NewView(resource)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = r.now()
	v.touch(v.CreatedAt)

	r.mu.Lock()
	r.views[v.ID] = v
	r.mu.Unlock()
	return v, nil
}

func (r *Registry) Get(id string) (*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.views[id]
	if !ok {
		return nil, errors.Wrapf(ErrViewNotFound, "id %s", id)
	}
	v.touch(r.now())
	return v, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.views[id]; !ok {
		return errors.Wrapf(ErrViewNotFound, "id %s", id)
	}
	delete(r.views, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// EvictIdle deletes every view not looked up for longer than maxIdle and
// returns how many were removed
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, v := range r.views {
		if v.LastUsed().Before(cutoff) {
			delete(r.views, id)
			evicted++
		}
	}
	return evicted
}

// RunJanitor evicts idle views every half maxIdle until ctx ends
func (r *Registry) RunJanitor(ctx context.Context, maxIdle time.Duration, logger *logrus.Logger) {
	log := logger.WithField("component", "view-registry")
	interval := max(maxIdle/2, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(maxIdle); n > 0 {
				log.WithField("remaining", r.Len()).Infof("Evicted %d idle views", n)
			}
		}
	}
}
