package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/teambuzzer/internal/game"
)

func addRoutes(r chi.Router, logger *slog.Logger, games *game.Registry, store *AuditStore, broker *Broker, db *sql.DB, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("TeamBuzzer API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Game connections.
	r.Get("/ws/create", handleCreate(logger, games))
	r.Get("/ws/join/{code}", handleJoin(logger, games))

	// Read-only surface.
	r.Get("/api/games", handleListGames(store))
	r.Route("/api/games/{code}", func(r chi.Router) {
		r.Get("/buzzes", handleListBuzzes(store))

		// Live-game routes — {code} resolved by gameMiddleware.
		r.Group(func(r chi.Router) {
			r.Use(gameMiddleware(games))
			r.Get("/teams", handleGameTeams())
			r.Get("/events", handleEvents(broker))
		})
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
