package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/teambuzzer/internal/game"
)

type ctxKey int

const ctxKeyActor ctxKey = iota

// gameMiddleware resolves the {code} URL parameter into a live game actor.
// Handlers behind it can assume the game existed when the request started.
func gameMiddleware(games *game.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := chi.URLParam(r, "code")
			actor, err := games.Resolve(code)
			if err != nil {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyActor, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func gameActor(r *http.Request) *game.Actor {
	return r.Context().Value(ctxKeyActor).(*game.Actor)
}
