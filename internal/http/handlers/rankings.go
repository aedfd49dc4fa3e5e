package handlers

import (
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/mauv0809/darts-league/internal/league"
)

// defaultLeaders is how many players each overview leaderboard shows.
const defaultLeaders = 3

// Today reports the current league day.
type Today func() civil.Date

func SeasonsHandler(store league.LeagueStore, defaultSeason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasons, err := store.Seasons(r.Context())
		if err != nil {
			writeStoreError(w, err, "Failed to fetch seasons")
			return
		}
		current := defaultSeason
		if len(seasons) > 0 {
			current = seasons[0]
		}
		writeJSON(w, http.StatusOK, map[string]any{"seasons": seasons, "current": current})
	}
}

// RankingsHandler returns the season ranking for ?season=, defaulting to
// the current season.
func RankingsHandler(store league.LeagueStore, defaultSeason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season := r.URL.Query().Get("season")
		if season == "" {
			var err error
			season, err = store.CurrentSeason(r.Context(), defaultSeason)
			if err != nil {
				writeStoreError(w, err, "Failed to fetch rankings")
				return
			}
		}
		ranking, err := store.SeasonRanking(r.Context(), season)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch rankings")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"season": season, "ranking": ranking})
	}
}

// LeaderboardHandler serves the all-time top-N for ?metric= (default points)
// and ?limit= (default 3).
func LeaderboardHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metric := league.MetricPoints
		if raw := r.URL.Query().Get("metric"); raw != "" {
			metric = league.Metric(raw)
		}
		limit := defaultLeaders
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid limit "+strconv.Quote(raw))
				return
			}
			limit = n
		}
		leaders, err := store.TopPlayers(r.Context(), metric, limit)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch leaderboard")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"metric": metric, "leaders": leaders})
	}
}

func OverviewHandler(store league.LeagueStore, today Today, defaultSeason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := league.LoadOverview(r.Context(), store, today(), defaultSeason, defaultLeaders)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch overview")
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}
