package metrics

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	requests         []string
	statsCreated     int
	statsUpdated     int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		requests: make([]string, 0),
	}
}

func (m *Mock) ObserveRequestDuration(route, method string, status int, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, method+" "+route)
}

func (m *Mock) IncStatsUpserted(created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if created {
		m.statsCreated++
	} else {
		m.statsUpdated++
	}
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Requests returns the "METHOD route" pairs observed so far.
func (m *Mock) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// StatsCreated returns the number of upserts that inserted a row.
func (m *Mock) StatsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsCreated
}

// StatsUpdated returns the number of upserts that updated an existing row.
func (m *Mock) StatsUpdated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsUpdated
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// MockCounters is an in-memory CounterStore.
type MockCounters struct {
	mu     sync.Mutex
	values map[string]int
}

func NewMockCounters() *MockCounters {
	return &MockCounters{values: make(map[string]int)}
}

func (m *MockCounters) Increment(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key]++
}

func (m *MockCounters) GetAll(_ context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}
