package handlers

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/mauv0809/darts-league/internal/metrics"
)

func ListStatsHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var eventID *int64
		if raw := r.URL.Query().Get("eventId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				writeError(w, http.StatusBadRequest, "invalid eventId "+strconv.Quote(raw))
				return
			}
			eventID = &id
		}
		stats, err := store.ListStats(r.Context(), eventID)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// UpsertStatHandler records a player's results for an event. A new row
// answers 201, an update of the existing (player, event) row answers 200.
func UpsertStatHandler(store league.LeagueStore, m metrics.Metrics, counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.StatInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		stat, created, err := store.UpsertStat(r.Context(), in)
		if err != nil {
			writeStoreError(w, err, "Failed to save stats")
			return
		}
		m.IncStatsUpserted(created)
		counters.Increment(r.Context(), metrics.CounterStatsRecorded)

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, stat)
	}
}

func GetStatHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		stat, err := store.GetStat(r.Context(), id)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch stat")
			return
		}
		writeJSON(w, http.StatusOK, stat)
	}
}

func UpdateStatHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var values league.StatValues
		if err := decodeJSON(w, r, &values); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		stat, err := store.UpdateStat(r.Context(), id, values)
		if err != nil {
			writeStoreError(w, err, "Failed to update stat")
			return
		}
		writeJSON(w, http.StatusOK, stat)
	}
}

func DeleteStatHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.DeleteStat(r.Context(), id); err != nil {
			writeStoreError(w, err, "Failed to delete stat")
			return
		}
		log.Info("Stat deleted via API", "statID", id)
		writeSuccess(w)
	}
}
