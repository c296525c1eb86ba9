package game

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var ErrNotFound = errors.New("game not found")

// codeAlphabet avoids characters players confuse when reading a code off a
// screen (0/O, 1/I).
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 4
)

// Registry is the process-wide table of live games. Lookups take the read
// lock; only the insert step of Create and the eviction on discard take the
// write lock. Everything else about a game goes through its actor.
type Registry struct {
	mu     sync.RWMutex
	games  map[string]*Actor
	logger *slog.Logger
	events Events
}

func NewRegistry(logger *slog.Logger, events Events) *Registry {
	if events == nil {
		events = NopEvents{}
	}
	return &Registry{
		games:  make(map[string]*Actor),
		logger: logger,
		events: events,
	}
}

// Create mints a game with empty rosters for teamNames and returns its code
// and actor. The code is generated under the write lock so two concurrent
// creates can never collide.
func (r *Registry) Create(teamNames []string) (string, *Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, err := r.uniqueCode()
	if err != nil {
		return "", nil, err
	}

	names := dedupe(teamNames)
	actor := Start(code, names, r.logger, r.events, func() { r.evict(code) })
	r.games[code] = actor

	r.logger.Info("game created", "game", code, "teams", names)
	r.events.GameCreated(code, names)
	return code, actor, nil
}

// Resolve looks up a live game by its code.
func (r *Registry) Resolve(code string) (*Actor, error) {
	r.mu.RLock()
	actor, ok := r.games[code]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return actor, nil
}

// Len reports the number of live games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// evict runs from the actor's exit hook once its loop has terminated, so a
// discarded game's code becomes free for reuse instead of leaking.
func (r *Registry) evict(code string) {
	r.mu.Lock()
	delete(r.games, code)
	r.mu.Unlock()
	r.logger.Info("game evicted", "game", code)
}

// uniqueCode retries until it finds a code not already in the table.
// Caller must hold the write lock.
func (r *Registry) uniqueCode() (string, error) {
	for {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		if _, taken := r.games[code]; !taken {
			return code, nil
		}
	}
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating game code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
