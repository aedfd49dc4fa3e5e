package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/mauv0809/darts-league/internal/metrics"
	"github.com/mauv0809/darts-league/internal/notifier"
)

// respondWithSlackMsg writes a formatted Slack message as the slash command response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	writeJSON(w, http.StatusOK, msg)
}

// StandingsCommandHandler answers /standings [season]. Without an argument
// the current season is shown.
func StandingsCommandHandler(store league.LeagueStore, n notifier.Notifier, counters metrics.CounterStore, defaultSeason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		counters.Increment(r.Context(), metrics.CounterSlackCommandsRun)

		season := strings.TrimSpace(r.FormValue("text"))
		if season == "" {
			var err error
			season, err = store.CurrentSeason(r.Context(), defaultSeason)
			if err != nil {
				http.Error(w, "Failed to get standings", http.StatusInternalServerError)
				log.Error("Failed to get current season", "error", err)
				return
			}
		}

		log.Info("Received standings command", "season", season, "user", r.FormValue("user_name"))
		ranking, err := store.SeasonRanking(r.Context(), season)
		if err != nil {
			http.Error(w, "Failed to get standings", http.StatusInternalServerError)
			log.Error("Failed to get season ranking from store", "error", err, "season", season)
			return
		}

		msg, err := n.FormatStandingsResponse(season, ranking)
		if err != nil {
			http.Error(w, "Failed to format standings", http.StatusInternalServerError)
			log.Error("Failed to format standings", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// PlayerStatsCommandHandler answers /player-stats <name> with the career of
// the best matching player.
func PlayerStatsCommandHandler(store league.LeagueStore, n notifier.Notifier, counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		playerName := strings.TrimSpace(r.FormValue("text"))
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		counters.Increment(r.Context(), metrics.CounterSlackCommandsRun)

		log.Info("Received player stats command", "player", playerName)
		var msg any
		player, err := store.FindPlayerByName(r.Context(), playerName)
		switch {
		case errors.Is(err, league.ErrNotFound):
			log.Warn("Could not find player", "player", playerName)
			msg, err = n.FormatPlayerNotFoundResponse(playerName)
		case err != nil:
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to find player", "error", err, "player", playerName)
			return
		default:
			var seasons []league.SeasonTotals
			seasons, err = store.PlayerSeasons(r.Context(), player.ID)
			if err != nil {
				http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
				log.Error("Failed to get player seasons", "error", err, "playerID", player.ID)
				return
			}
			msg, err = n.FormatPlayerCareerResponse(player, seasons)
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
