package handlers

import (
	"net/http"

	"github.com/mauv0809/darts-league/internal/calendar"
	"github.com/mauv0809/darts-league/internal/league"
)

func CalendarHandler(store league.LeagueStore, today Today) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := store.ListEvents(r.Context(), league.OrderAsc)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch events")
			return
		}
		completed, err := store.CompletedEventIDs(r.Context())
		if err != nil {
			writeStoreError(w, err, "Failed to fetch events")
			return
		}
		day := today()
		groups := calendar.Group(events, completed, day)
		writeJSON(w, http.StatusOK, map[string]any{
			"today":   day,
			"seasons": groups,
			"counts":  calendar.Counts(groups),
		})
	}
}
