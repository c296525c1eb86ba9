package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "TeamBuzzer API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the TeamBuzzer trivia game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/create
	getCreate, _ := r.NewOperationContext(http.MethodGet, "/ws/create")
	getCreate.SetSummary("Create a game (WebSocket)")
	getCreate.SetDescription("Upgrades to a WebSocket. Team names come from repeated " +
		"`team` query parameters (or one comma-separated `teams`). The first message " +
		"is the generated game code; every later message is a full state snapshot. " +
		"Send `reset` to clear the buzzer; closing the connection discards the game.")
	getCreate.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	getCreate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getCreate)

	// GET /ws/join/{code}
	getJoin, _ := r.NewOperationContext(http.MethodGet, "/ws/join/{code}")
	getJoin.SetSummary("Join a game (WebSocket)")
	getJoin.SetDescription("Upgrades to a WebSocket. The first message is the JSON " +
		"array of team names. Send one `team|user` registration frame, then `buzzer` " +
		"to press the buzzer; every broadcast is a full state snapshot.")
	getJoin.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	getJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getJoin)

	// GET /api/games
	getGames, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	getGames.SetSummary("List recent games")
	getGames.SetDescription("Returns recently created games from the audit log, newest first.")
	getGames.AddRespStructure([]GameRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	getGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getGames)

	// GET /api/games/{code}/teams
	getTeams, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/teams")
	getTeams.SetSummary("List a live game's teams")
	getTeams.SetDescription("Returns the team names of a live game in creation order.")
	getTeams.AddRespStructure(TeamsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getTeams.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getTeams)

	// GET /api/games/{code}/buzzes
	getBuzzes, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/buzzes")
	getBuzzes.SetSummary("List recorded buzzes")
	getBuzzes.SetDescription("Returns every winning buzz recorded for games that used this code.")
	getBuzzes.AddRespStructure([]BuzzRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getBuzzes)

	// GET /api/games/{code}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/events")
	getEvents.SetSummary("Spectator event stream")
	getEvents.SetDescription("Server-sent events; each `state` event carries a full game snapshot.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	getEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := json.MarshalIndent(spec, "", "  ")
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(data)
	}
}
