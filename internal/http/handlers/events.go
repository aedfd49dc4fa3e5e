package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/mauv0809/darts-league/internal/metrics"
	"github.com/mauv0809/darts-league/internal/notifier"
)

// eventRequest is the JSON body of event writes. The date may be a plain
// calendar date or an RFC 3339 timestamp.
type eventRequest struct {
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	Season      string  `json:"season"`
	Description *string `json:"description"`
}

func (req eventRequest) input() (league.EventInput, error) {
	in := league.EventInput{
		Type:        league.EventType(strings.TrimSpace(req.Type)),
		Season:      req.Season,
		Description: req.Description,
	}
	if strings.TrimSpace(req.Date) == "" {
		// Reported together with the other required fields.
		return in, nil
	}
	d, err := league.ParseEventDate(req.Date)
	if err != nil {
		return in, err
	}
	in.Date = d
	return in, nil
}

// eventDetail is an event with its result sheet.
type eventDetail struct {
	*league.Event
	Results []league.EventResult `json:"results"`
}

func ListEventsHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			events []league.Event
			err    error
		)
		if season := r.URL.Query().Get("season"); season != "" {
			events, err = store.ListEventsBySeason(r.Context(), season)
		} else {
			order := league.OrderDesc
			if r.URL.Query().Get("order") == string(league.OrderAsc) {
				order = league.OrderAsc
			}
			events, err = store.ListEvents(r.Context(), order)
		}
		if err != nil {
			writeStoreError(w, err, "Failed to fetch events")
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

func CreateEventHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req eventRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		in, err := req.input()
		if err != nil {
			writeStoreError(w, err, "Failed to create event")
			return
		}
		event, err := store.CreateEvent(r.Context(), in)
		if err != nil {
			writeStoreError(w, err, "Failed to create event")
			return
		}
		writeJSON(w, http.StatusCreated, event)
	}
}

func GetEventHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		event, err := store.GetEvent(r.Context(), id)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch event")
			return
		}
		results, err := store.EventResults(r.Context(), id)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch event results")
			return
		}
		writeJSON(w, http.StatusOK, eventDetail{Event: event, Results: results})
	}
}

func UpdateEventHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var req eventRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		in, err := req.input()
		if err != nil {
			writeStoreError(w, err, "Failed to update event")
			return
		}
		event, err := store.UpdateEvent(r.Context(), id, in)
		if err != nil {
			writeStoreError(w, err, "Failed to update event")
			return
		}
		writeJSON(w, http.StatusOK, event)
	}
}

func DeleteEventHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.DeleteEvent(r.Context(), id); err != nil {
			writeStoreError(w, err, "Failed to delete event")
			return
		}
		log.Info("Event deleted via API", "eventID", id)
		writeSuccess(w)
	}
}

// AnnounceEventHandler posts an event's results and the standings of its
// season to Slack. Honors dry_run.
func AnnounceEventHandler(store league.LeagueStore, n notifier.Notifier, counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		event, err := store.GetEvent(r.Context(), id)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch event")
			return
		}
		results, err := store.EventResults(r.Context(), id)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch event results")
			return
		}
		ranking, err := store.SeasonRanking(r.Context(), event.Season)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch rankings")
			return
		}

		dryRun := IsDryRunFromContext(r)
		if err := n.SendEventResults(r.Context(), event, results, dryRun); err != nil {
			log.Error("Failed to announce event results", "error", err, "eventID", id)
			writeError(w, http.StatusBadGateway, "Failed to send notification")
			return
		}
		if err := n.SendStandings(r.Context(), event.Season, ranking, dryRun); err != nil {
			log.Error("Failed to announce standings", "error", err, "season", event.Season)
			writeError(w, http.StatusBadGateway, "Failed to send notification")
			return
		}
		if !dryRun {
			counters.Increment(r.Context(), metrics.CounterResultsAnnounced)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "dryRun": dryRun})
	}
}
