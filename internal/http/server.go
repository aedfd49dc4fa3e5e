package http

import (
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mauv0809/darts-league/internal/calendar"
	"github.com/mauv0809/darts-league/internal/config"
	"github.com/mauv0809/darts-league/internal/http/handlers"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/mauv0809/darts-league/internal/metrics"
	"github.com/mauv0809/darts-league/internal/notifier"
)

func NewServer(store league.LeagueStore, counters metrics.CounterStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier) *Server {
	loc := cfg.Location()
	server := &Server{
		Store:          store,
		Counters:       counters,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Today:          func() civil.Date { return calendar.Today(loc) },
		Router:         chi.NewRouter(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(
		middleware.Recoverer,
		requestIDMiddleware,
		s.instrumentMiddleware,
		paramsMiddleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.Cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: s.Cfg.CORSCredentials(),
			MaxAge:           300,
		}),
	)
	r.NotFound(handlers.NotFoundHandler())
	r.MethodNotAllowed(handlers.MethodNotAllowedHandler())

	// today is resolved per request so the calendar rolls over at midnight.
	today := func() civil.Date { return s.Today() }
	season := s.Cfg.DefaultSeason

	r.Method(http.MethodGet, "/metrics", s.MetricsHandler)
	r.Get("/health", handlers.HealthCheckHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/overview", handlers.OverviewHandler(s.Store, today, season))
		r.Get("/seasons", handlers.SeasonsHandler(s.Store, season))
		r.Get("/rankings", handlers.RankingsHandler(s.Store, season))
		r.Get("/leaderboard", handlers.LeaderboardHandler(s.Store))
		r.Get("/calendar", handlers.CalendarHandler(s.Store, today))

		r.Route("/players", func(r chi.Router) {
			r.Get("/", handlers.ListPlayersHandler(s.Store))
			r.Method(http.MethodPost, "/", Chain(handlers.CreatePlayerHandler(s.Store), requireAdminAPI))
			r.Get("/{id}", handlers.GetPlayerHandler(s.Store))
			r.Method(http.MethodPut, "/{id}", Chain(handlers.UpdatePlayerHandler(s.Store), requireAdminAPI))
			r.Method(http.MethodDelete, "/{id}", Chain(handlers.DeletePlayerHandler(s.Store), requireAdminAPI))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", handlers.ListEventsHandler(s.Store))
			r.Method(http.MethodPost, "/", Chain(handlers.CreateEventHandler(s.Store), requireAdminAPI))
			r.Get("/{id}", handlers.GetEventHandler(s.Store))
			r.Method(http.MethodPut, "/{id}", Chain(handlers.UpdateEventHandler(s.Store), requireAdminAPI))
			r.Method(http.MethodDelete, "/{id}", Chain(handlers.DeleteEventHandler(s.Store), requireAdminAPI))
			r.Method(http.MethodPost, "/{id}/announce", Chain(handlers.AnnounceEventHandler(s.Store, s.Notifier, s.Counters), requireAdminAPI))
		})

		r.Route("/stats", func(r chi.Router) {
			upsert := Chain(handlers.UpsertStatHandler(s.Store, s.Metrics, s.Counters), requireAdminAPI)
			r.Get("/", handlers.ListStatsHandler(s.Store))
			r.Method(http.MethodPost, "/", upsert)
			r.Method(http.MethodPut, "/", upsert)
			r.Get("/{id}", handlers.GetStatHandler(s.Store))
			r.Method(http.MethodPatch, "/{id}", Chain(handlers.UpdateStatHandler(s.Store), requireAdminAPI))
			r.Method(http.MethodDelete, "/{id}", Chain(handlers.DeleteStatHandler(s.Store), requireAdminAPI))
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", handlers.AdminLoginPageHandler())
		r.Post("/login", handlers.AdminLoginHandler(s.Cfg.Admin.Password, s.Cfg.Admin.SessionTTL, s.Counters))
		r.Post("/logout", handlers.AdminLogoutHandler())
		r.Method(http.MethodGet, "/", Chain(handlers.AdminDashboardHandler(s.Store, s.Counters, season), requireAdminPage))
	})

	r.Route("/slack/command", func(r chi.Router) {
		r.Use(slackVerifierMiddleware(s.Cfg.Slack.SigningSecret))
		r.Post("/standings", handlers.StandingsCommandHandler(s.Store, s.Notifier, s.Counters, season))
		r.Post("/player-stats", handlers.PlayerStatsCommandHandler(s.Store, s.Notifier, s.Counters))
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
