package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncStatsUpserted(true)
	s.IncStatsUpserted(false)
	s.IncStatsUpserted(false)
	s.IncSlackNotifSent()
	s.IncSlackNotifFailed()
	s.SetStartupTime(1.5)
	s.ObserveRequestDuration("/api/players", "GET", 200, 0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.StatsUpserted.WithLabelValues("created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.StatsUpserted.WithLabelValues("updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.SlackNotifSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.SlackNotifFailed))
	assert.Equal(t, 1.5, testutil.ToFloat64(s.StartupTimeSeconds))
	assert.Equal(t, 1, testutil.CollectAndCount(s.RequestDuration))

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "darts_stats_upserted_total")
	assert.Contains(t, string(body), `route="/api/players"`)
}

func TestMock(t *testing.T) {
	m := NewMock()
	m.IncStatsUpserted(true)
	m.IncStatsUpserted(false)
	m.IncSlackNotifSent()
	m.ObserveRequestDuration("/health", "GET", 200, 0.001)

	assert.Equal(t, 1, m.StatsCreated())
	assert.Equal(t, 1, m.StatsUpdated())
	assert.Equal(t, 1, m.SlackNotifSent())
	assert.Equal(t, 0, m.SlackNotifFailed())
	assert.Equal(t, []string{"GET /health"}, m.Requests())
}
