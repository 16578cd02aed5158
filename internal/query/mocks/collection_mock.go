package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/example/admin-dashboard/internal/resource"
)

// MockCollection is a mock implementation of query.Collection for testing
type MockCollection[T any] struct {
	mu sync.Mutex

	Name      string
	Items     []T
	FetchedAt time.Time
	Err       error

	// For tracking calls in tests
	FetchCalls   int
	RefreshCalls int
}

// NewMockCollection creates a MockCollection serving items
func NewMockCollection[T any](name string, items []T, fetchedAt time.Time) *MockCollection[T] {
	return &MockCollection[T]{
		Name:      name,
		Items:     items,
		FetchedAt: fetchedAt,
	}
}

// SetError makes subsequent fetches fail with err
func (m *MockCollection[T]) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

func (m *MockCollection[T]) Fetch(ctx context.Context) (resource.Collection[T], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls++
	if m.Err != nil {
		return resource.Collection[T]{}, m.Err
	}
	return resource.Collection[T]{Items: m.Items, FetchedAt: m.FetchedAt}, nil
}

func (m *MockCollection[T]) Refresh(ctx context.Context) (resource.Collection[T], error) {
	m.mu.Lock()
	m.RefreshCalls++
	m.mu.Unlock()
	return m.Fetch(ctx)
}

func (m *MockCollection[T]) Summary() resource.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	sum := resource.Summary{Name: m.Name, Status: resource.Ready, Count: len(m.Items), FetchedAt: m.FetchedAt}
	if m.Err != nil {
		sum.Status = resource.Failed
		sum.Error = m.Err.Error()
	}
	return sum
}
