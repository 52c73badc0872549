package metrics

import (
	"sync"
	"time"
)

// RecordedRequest is one call seen by MockCollector.
type RecordedRequest struct {
	Method     string
	Route      string
	StatusCode int
}

// MockCollector is a simple mock implementation of MetricsCollector for testing.
type MockCollector struct {
	mu sync.RWMutex

	requests        []RecordedRequest
	transportErrors int
	shovelsCreated  map[bool]int
	shovelsDeleted  map[bool]int
}

// NewMockCollector creates a new mock collector.
func NewMockCollector() *MockCollector {
	return &MockCollector{
		shovelsCreated: make(map[bool]int),
		shovelsDeleted: make(map[bool]int),
	}
}

func (m *MockCollector) RecordRequest(method, route string, statusCode int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, RecordedRequest{Method: method, Route: route, StatusCode: statusCode})
}

func (m *MockCollector) RecordTransportError(_, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transportErrors++
}

func (m *MockCollector) RecordShovelCreated(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shovelsCreated[ok]++
}

func (m *MockCollector) RecordShovelDeleted(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shovelsDeleted[ok]++
}

func (m *MockCollector) IsEnabled() bool { return true }

// Requests returns a copy of the recorded requests.
func (m *MockCollector) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockCollector) TransportErrors() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transportErrors
}

func (m *MockCollector) ShovelsCreated(ok bool) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shovelsCreated[ok]
}

func (m *MockCollector) ShovelsDeleted(ok bool) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shovelsDeleted[ok]
}
