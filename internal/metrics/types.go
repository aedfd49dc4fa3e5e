package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	RequestDuration    *prometheus.HistogramVec
	StatsUpserted      *prometheus.CounterVec
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// Keys of the persisted activity counters.
const (
	CounterStatsRecorded    = "stats_recorded"
	CounterResultsAnnounced = "results_announced"
	CounterAdminLogins      = "admin_logins"
	CounterSlackCommandsRun = "slack_commands_run"
)
