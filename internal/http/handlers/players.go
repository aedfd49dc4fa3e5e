package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/league"
)

// playerDetail is a player with their season breakdown and career totals.
type playerDetail struct {
	*league.Player
	Seasons []league.SeasonTotals `json:"seasons"`
	Career  league.CareerTotals   `json:"career"`
}

func ListPlayersHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.ListPlayers(r.Context())
		if err != nil {
			writeStoreError(w, err, "Failed to fetch players")
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func CreatePlayerHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.PlayerInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		player, err := store.CreatePlayer(r.Context(), in)
		if err != nil {
			writeStoreError(w, err, "Failed to create player")
			return
		}
		writeJSON(w, http.StatusCreated, player)
	}
}

func GetPlayerHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		player, err := store.GetPlayer(r.Context(), id)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch player")
			return
		}
		seasons, err := store.PlayerSeasons(r.Context(), id)
		if err != nil {
			writeStoreError(w, err, "Failed to fetch player stats")
			return
		}
		writeJSON(w, http.StatusOK, playerDetail{
			Player:  player,
			Seasons: seasons,
			Career:  league.SumCareer(seasons),
		})
	}
}

func UpdatePlayerHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var in league.PlayerInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		player, err := store.UpdatePlayer(r.Context(), id, in)
		if err != nil {
			writeStoreError(w, err, "Failed to update player")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func DeletePlayerHandler(store league.LeagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.DeletePlayer(r.Context(), id); err != nil {
			writeStoreError(w, err, "Failed to delete player")
			return
		}
		log.Info("Player deleted via API", "playerID", id)
		writeSuccess(w)
	}
}
