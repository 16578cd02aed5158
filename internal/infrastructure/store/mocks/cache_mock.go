package mocks

import (
	"sort"
	"sync"
	"time"

	"github.com/example/admin-dashboard/internal/infrastructure/store"
)

// MockCache is a mock implementation of CollectionCache for testing
type MockCache struct {
	mu      sync.RWMutex
	entries map[string]store.Entry

	// For tracking calls in tests
	SetCalls    []SetCall
	GetCalls    []string
	DeleteCalls []string
}

// SetCall records parameters passed to Set
type SetCall struct {
	Key       string
	Data      any
	FetchedAt time.Time
}

// NewMockCache creates a new MockCache
func NewMockCache() *MockCache {
	return &MockCache{
		entries:     make(map[string]store.Entry),
		SetCalls:    make([]SetCall, 0),
		GetCalls:    make([]string, 0),
		DeleteCalls: make([]string, 0),
	}
}

// Get retrieves the entry stored under key
func (m *MockCache) Get(key string) (store.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	entry, ok := m.entries[key]
	return entry, ok
}

// Set replaces the entry stored under key
func (m *MockCache) Set(key string, data any, fetchedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{
		Key:       key,
		Data:      data,
		FetchedAt: fetchedAt,
	})
	m.entries[key] = store.Entry{Data: data, FetchedAt: fetchedAt}
}

// Delete drops the entry stored under key
func (m *MockCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, key)
	delete(m.entries, key)
}

// Keys lists the cached resource keys
func (m *MockCache) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SetData stores an entry directly for testing (without recording the call)
func (m *MockCache) SetData(key string, data any, fetchedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = store.Entry{Data: data, FetchedAt: fetchedAt}
}

// GetData reads an entry directly for testing (without recording the call)
func (m *MockCache) GetData(key string) (store.Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	return entry, ok
}

// SetCallCount returns how many times Set was called
func (m *MockCache) SetCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.SetCalls)
}
