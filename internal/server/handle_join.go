package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/playperu/teambuzzer/internal/game"
)

// handleJoin is the player entry point. The game code is resolved before the
// upgrade (unknown codes get a plain 404), the first outbound message is the
// team-name list, and the first inbound frame must be a "team|user"
// registration. After that players send single-token commands ("buzzer");
// closing the connection removes their roster entries.
func handleJoin(logger *slog.Logger, games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		actor, err := games.Resolve(code)
		if err != nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()

		teams := actor.Teams()
		if teams == nil {
			// Discarded between resolve and upgrade.
			conn.Close(websocket.StatusGoingAway, "game discarded")
			return
		}
		payload, err := json.Marshal(teams)
		if err != nil {
			logger.Error("encoding team list", "game", code, "error", err)
			return
		}
		if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
			logger.Debug("player handshake write failed", "game", code, "error", err)
			return
		}

		// The connection talks to no actor until a valid registration
		// arrives; an early close or a malformed frame just drops it.
		_, first, err := conn.Read(ctx)
		if err != nil {
			logger.Debug("player left before registering", "game", code)
			return
		}
		reg, ok := parseRegistration(string(first))
		if !ok {
			logger.Warn("malformed registration frame", "game", code)
			conn.Close(websocket.StatusPolicyViolation, "expected registration frame team|user")
			return
		}

		dest := game.NewDestination()
		if !actor.Register(reg.Team, reg.User, dest) {
			logger.Warn("registration rejected", "game", code, "team", reg.Team, "user", reg.User)
			conn.Close(websocket.StatusPolicyViolation, "unknown team")
			return
		}

		go relayFrames(ctx, conn, dest, logger)

		for {
			_, msg, err := conn.Read(ctx)
			if err != nil {
				logger.Info("player disconnected", "game", code, "team", reg.Team, "user", reg.User)
				actor.Disconnect(reg.Team, reg.User)
				return
			}

			switch token := strings.TrimSpace(string(msg)); token {
			case tokenBuzz:
				actor.Buzz(reg.Team, reg.User)
			default:
				logger.Warn("unknown player command", "game", code, "command", token)
			}
		}
	}
}
