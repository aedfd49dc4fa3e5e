package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
type Metrics interface {
	ObserveRequestDuration(route, method string, status int, duration float64)
	IncStatsUpserted(created bool)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// CounterStore persists named activity counters across restarts.
type CounterStore interface {
	Increment(ctx context.Context, key string)
	GetAll(ctx context.Context) (map[string]int, error)
}
