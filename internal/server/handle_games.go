package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const defaultGamesLimit = 50

// TeamsResponse is the ordered team-name list of a live game.
type TeamsResponse struct {
	Teams []string `json:"teams"`
}

// handleGameTeams returns the team names of a live game, in creation order.
// It is the same list a joining player receives as their first WebSocket
// message, and like that handshake it costs the game a broadcast per call.
func handleGameTeams() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams := gameActor(r).Teams()
		if teams == nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeJSON(w, http.StatusOK, TeamsResponse{Teams: teams})
	}
}

// handleListGames returns recent games from the audit log, newest first.
func handleListGames(store *AuditStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultGamesLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}

		games, err := store.ListGames(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if games == nil {
			games = []GameRecord{}
		}
		writeJSON(w, http.StatusOK, games)
	}
}

// handleListBuzzes returns the recorded winning buzzes for a code, including
// games that have already been discarded.
func handleListBuzzes(store *AuditStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		buzzes, err := store.ListBuzzes(r.Context(), code)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if buzzes == nil {
			buzzes = []BuzzRecord{}
		}
		writeJSON(w, http.StatusOK, buzzes)
	}
}
