package resource

import (
	"fmt"
)

// ErrorKind classifies why a fetch attempt failed
type ErrorKind string

const (
	// KindNetwork means the request could not complete
	KindNetwork ErrorKind = "network"
	// KindHTTPStatus means the remote answered with a non-2xx status
	KindHTTPStatus ErrorKind = "http_status"
	// KindDecode means the body did not match the expected shape
	KindDecode ErrorKind = "decode"
)

// FetchError is the single error type surfaced by a resource client.
// Every failure is terminal for its attempt; retrying is the caller's call.
type FetchError struct {
	Kind       ErrorKind
	Resource   string
	StatusCode int
	Detail     string
	Err        error
}

func (e *FetchError) Error() string {
	name := e.Resource
	if name == "" {
		name = "resource"
	}
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("%s: upstream returned status %d: %s", name, e.StatusCode, e.Detail)
	case KindDecode:
		return fmt.Sprintf("%s: decode failed: %s", name, e.Detail)
	default:
		return fmt.Sprintf("%s: request failed: %s", name, e.Detail)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UserMessage is the human-readable text a view shows instead of a table
func (e *FetchError) UserMessage() string {
	if e.Kind == KindHTTPStatus && e.StatusCode != 0 {
		return fmt.Sprintf("Error: %d", e.StatusCode)
	}
	name := e.Resource
	if name == "" {
		name = "data"
	}
	return fmt.Sprintf("An error occurred while fetching %s. Please try again later.", name)
}

func (e *FetchError) withResource(name string) *FetchError {
	cp := *e
	cp.Resource = name
	return &cp
}
