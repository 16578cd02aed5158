package resource

import (
	"context"
	"sync"
	"time"

	"github.com/example/admin-dashboard/internal/infrastructure/store"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Config describes one remote collection
type Config struct {
	// Name is the resource key, also used as the cache key
	Name string
	// Path is appended to the source's base URL
	Path string
	// TTL is the validity window of a successful fetch
	TTL time.Duration
	// Timeout bounds a single shared load; zero means no extra bound
	Timeout time.Duration
}

// Deps are the collaborators a client is built from
type Deps struct {
	Source   Source
	Cache    store.CollectionCache
	Observer Observer
	Logger   *logrus.Logger
	Now      func() time.Time
}

// Client fetches one entity collection, caches it for its validity window
// and collapses concurrent loads into a single request.
type Client[T any] struct {
	cfg      Config
	source   Source
	decode   Decoder[T]
	cache    store.CollectionCache
	observer Observer
	log      *logrus.Entry
	now      func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	state       State[T]
	subscribers map[int]func(State[T])
	nextSub     int
}

func NewClient[T any](cfg Config, deps Deps, decode Decoder[T]) *Client[T] {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	cache := deps.Cache
	if cache == nil {
		cache = store.NewMemoryCache()
	}
	return &Client[T]{
		cfg:         cfg,
		source:      deps.Source,
		decode:      decode,
		cache:       cache,
		observer:    deps.Observer,
		log:         logger.WithFields(logrus.Fields{"component": "resource", "resource": cfg.Name}),
		now:         now,
		subscribers: make(map[int]func(State[T])),
	}
}

func (c *Client[T]) Name() string {
	return c.cfg.Name
}

// Fetch returns the cached collection while it is fresh. Otherwise it
// joins (or starts) the single in-flight load for this resource. A caller
// whose ctx ends stops waiting; the shared load keeps going for the others.
func (c *Client[T]) Fetch(ctx context.Context) (Collection[T], error) {
	if col, ok := c.cached(); ok {
		c.log.Debug("Serving cached collection")
		return col, nil
	}

	ch := c.group.DoChan(c.cfg.Name, func() (any, error) {
		return c.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return Collection[T]{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Collection[T]{}, res.Err
		}
		return res.Val.(Collection[T]), nil
	}
}

// Refresh drops the cached copy and fetches again
func (c *Client[T]) Refresh(ctx context.Context) (Collection[T], error) {
	c.cache.Delete(c.cfg.Name)
	return c.Fetch(ctx)
}

// State returns the current observable state
func (c *Client[T]) State() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Summary reports the state without the items
func (c *Client[T]) Summary() Summary {
	st := c.State()
	sum := Summary{
		Name:      c.cfg.Name,
		Status:    st.Status,
		Count:     len(st.Items),
		FetchedAt: st.FetchedAt,
	}
	if st.Err != nil {
		sum.Error = st.Err.Error()
		var fe *FetchError
		if errors.As(st.Err, &fe) {
			sum.ErrorKind = fe.Kind
		}
	}
	return sum
}

// Subscribe registers fn for every state transition. The returned func
// removes the subscription.
func (c *Client[T]) Subscribe(fn func(State[T])) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Client[T]) cached() (Collection[T], bool) {
	entry, ok := c.cache.Get(c.cfg.Name)
	if !ok || !entry.Fresh(c.cfg.TTL, c.now()) {
		return Collection[T]{}, false
	}
	items, ok := entry.Data.([]T)
	if !ok {
		return Collection[T]{}, false
	}
	return Collection[T]{Items: items, FetchedAt: entry.FetchedAt}, true
}

func (c *Client[T]) load(ctx context.Context) (Collection[T], error) {
	// a load that finished right before this one started already filled the cache
	if col, ok := c.cached(); ok {
		return col, nil
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := c.now()
	c.transition(func(st *State[T]) {
		st.Status = Loading
		st.Err = nil
	})
	c.log.Info("Loading collection")

	items, err := c.get(ctx)
	if err != nil {
		c.transition(func(st *State[T]) {
			st.Status = Failed
			st.Err = err
		})
		c.log.WithError(err).Warn("Failed to load collection")
		c.emit(ctx, failedEvent(c.cfg.Name, err, start, c.now()))
		return Collection[T]{}, err
	}

	fetchedAt := c.now()
	c.cache.Set(c.cfg.Name, items, fetchedAt)
	c.transition(func(st *State[T]) {
		st.Status = Ready
		st.Items = items
		st.FetchedAt = fetchedAt
		st.Err = nil
	})
	c.log.Infof("Loaded %d items", len(items))
	c.emit(ctx, FetchEvent{
		ID:       uuid.NewString(),
		Resource: c.cfg.Name,
		Outcome:  OutcomeLoaded,
		Count:    len(items),
		Duration: fetchedAt.Sub(start),
		At:       fetchedAt,
	})

	return Collection[T]{Items: items, FetchedAt: fetchedAt}, nil
}

func (c *Client[T]) get(ctx context.Context) ([]T, error) {
	if c.source == nil {
		return nil, &FetchError{Kind: KindNetwork, Resource: c.cfg.Name, Detail: "no source configured"}
	}

	body, err := c.source.Get(ctx, c.cfg.Path)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, fe.withResource(c.cfg.Name)
		}
		return nil, &FetchError{
			Kind:     KindNetwork,
			Resource: c.cfg.Name,
			Detail:   err.Error(),
			Err:      err,
		}
	}

	items, err := c.decode(body)
	if err != nil {
		return nil, &FetchError{
			Kind:     KindDecode,
			Resource: c.cfg.Name,
			Detail:   err.Error(),
			Err:      err,
		}
	}
	return items, nil
}

func (c *Client[T]) transition(update func(st *State[T])) {
	c.mu.Lock()
	update(&c.state)
	st := c.state
	subs := make([]func(State[T]), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

func (c *Client[T]) emit(ctx context.Context, event FetchEvent) {
	if c.observer == nil {
		return
	}
	c.observer.FetchCompleted(ctx, event)
}

func failedEvent(name string, err error, start, end time.Time) FetchEvent {
	event := FetchEvent{
		ID:       uuid.NewString(),
		Resource: name,
		Outcome:  OutcomeFailed,
		Detail:   err.Error(),
		Duration: end.Sub(start),
		At:       end,
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		event.Kind = fe.Kind
		event.StatusCode = fe.StatusCode
	}
	return event
}
