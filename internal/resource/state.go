package resource

import "time"

// Status is the observable lifecycle of one resource collection
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is a snapshot of a client. Items keeps the last good collection
// while a reload is in flight, so Loading may carry data.
type State[T any] struct {
	Status    Status
	Items     []T
	FetchedAt time.Time
	Err       error
}

// Collection is a fetched collection and the time it was fetched
type Collection[T any] struct {
	Items     []T
	FetchedAt time.Time
}

// Summary is the type-erased view of a client's state used for reporting
type Summary struct {
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetched_at"`
	Error     string    `json:"error,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}
