package directions

import (
	"context"
	"sync"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

// MockProvider returns a canned result (or error) and records calls.
type MockProvider struct {
	Result ports.DirectionsResult
	Err    error

	mu    sync.Mutex
	calls int
	last  []domain.Coordinates
}

func NewMockProvider(order []int, legs []domain.RouteLeg) *MockProvider {
	return &MockProvider{Result: ports.DirectionsResult{WaypointOrder: order, Legs: legs}}
}

func (m *MockProvider) OptimizeStops(ctx context.Context, origin domain.Coordinates, stops []domain.Coordinates) (ports.DirectionsResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.last = append([]domain.Coordinates(nil), stops...)
	if m.Err != nil {
		return ports.DirectionsResult{}, m.Err
	}
	return m.Result, nil
}

func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
