package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/darts-league/internal/config"
	"github.com/mauv0809/darts-league/internal/http/handlers"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/mauv0809/darts-league/internal/metrics"
	"github.com/mauv0809/darts-league/internal/notifier"
)

type Server struct {
	Store          league.LeagueStore
	Counters       metrics.CounterStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Today          handlers.Today
	Router         chi.Router
}
