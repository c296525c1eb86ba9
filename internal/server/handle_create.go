package server

import (
	"log/slog"
	"net/http"
	"strings"

	"nhooyr.io/websocket"

	"github.com/playperu/teambuzzer/internal/game"
)

// handleCreate is the admin entry point. The request carries the team list
// (?team=Red&team=Blue, or ?teams=Red,Blue), the connection upgrades to a
// WebSocket, and the first outbound message is the generated game code.
// Afterwards the admin sends single-token commands ("reset"); closing the
// connection discards the game.
func handleCreate(logger *slog.Logger, games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := teamNames(r)
		if len(names) == 0 {
			writeError(w, http.StatusBadRequest, "at least one team name is required")
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

		code, actor, err := games.Create(names)
		if err != nil {
			logger.Error("creating game", "error", err)
			conn.Close(websocket.StatusInternalError, "could not create game")
			return
		}

		// First message: the join code. Everything after this is either a
		// state broadcast or a close.
		if err := conn.Write(ctx, websocket.MessageText, []byte(code)); err != nil {
			logger.Debug("admin handshake write failed", "game", code, "error", err)
			actor.Discard()
			return
		}

		dest := game.NewDestination()
		actor.AddAdmin(dest)
		go relayFrames(ctx, conn, dest, logger)

		for {
			_, msg, err := conn.Read(ctx)
			if err != nil {
				logger.Info("admin connection closed, discarding game", "game", code)
				actor.Discard()
				return
			}

			switch token := strings.TrimSpace(string(msg)); token {
			case tokenReset:
				actor.Reset()
			default:
				logger.Warn("unknown admin command", "game", code, "command", token)
			}
		}
	}
}

func teamNames(r *http.Request) []string {
	names := r.URL.Query()["team"]
	if csv := r.URL.Query().Get("teams"); csv != "" {
		names = append(names, strings.Split(csv, ",")...)
	}

	out := names[:0]
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
