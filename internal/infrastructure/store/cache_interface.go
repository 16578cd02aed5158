package store

import "time"

// Entry is a cached collection together with the time it was fetched
type Entry struct {
	Data      any
	FetchedAt time.Time
}

// Fresh reports whether the entry is still inside the validity window
func (e Entry) Fresh(ttl time.Duration, now time.Time) bool {
	return !e.FetchedAt.IsZero() && now.Before(e.FetchedAt.Add(ttl))
}

// CollectionCache defines the interface for the response cache
type CollectionCache interface {
	// Get retrieves the entry stored under key
	Get(key string) (Entry, bool)

	// Set replaces the entry stored under key
	Set(key string, data any, fetchedAt time.Time)

	// Delete drops the entry stored under key
	Delete(key string)

	// Keys lists the cached resource keys
	Keys() []string
}
