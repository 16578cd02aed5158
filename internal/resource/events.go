package resource

import (
	"context"
	"time"
)

// Fetch outcomes carried by FetchEvent
const (
	OutcomeLoaded = "loaded"
	OutcomeFailed = "failed"
)

// FetchEvent describes one completed network load
type FetchEvent struct {
	ID         string        `json:"id"`
	Resource   string        `json:"resource"`
	Outcome    string        `json:"outcome"`
	Kind       ErrorKind     `json:"kind,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	Detail     string        `json:"detail,omitempty"`
	Count      int           `json:"count"`
	Duration   time.Duration `json:"duration"`
	At         time.Time     `json:"at"`
}

// Observer is told about every load a client completes. Implementations
// must not block the caller for long.
type Observer interface {
	FetchCompleted(ctx context.Context, event FetchEvent)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(ctx context.Context, event FetchEvent)

func (f ObserverFunc) FetchCompleted(ctx context.Context, event FetchEvent) {
	f(ctx, event)
}
