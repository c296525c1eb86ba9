package server

import (
	"context"
	"log/slog"

	"nhooyr.io/websocket"

	"github.com/playperu/teambuzzer/internal/game"
)

// relayFrames is the outbound half of a connection bridge: it forwards every
// actor broadcast to the socket in arrival order. A write failure marks the
// destination dead and severs the connection; there are no retries. A closed
// frame stream means the game was discarded, which ends the connection cleanly.
func relayFrames(ctx context.Context, conn *websocket.Conn, dest *game.Destination, logger *slog.Logger) {
	for frame := range dest.Frames() {
		if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
			logger.Debug("websocket write failed", "error", err)
			dest.Done()
			conn.CloseNow()
			return
		}
	}
	conn.Close(websocket.StatusNormalClosure, "game discarded")
}
