package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/playperu/teambuzzer/internal/game"
)

const auditWriteTimeout = 5 * time.Second

// gameEvents fans actor notifications out to the audit store and the
// spectator broker. Hooks run on actor goroutines, so database writes are
// handed to a single worker: the actor never blocks on SQLite, and writes
// stay in arrival order (a buzz is never recorded before its game row).
type gameEvents struct {
	store  *AuditStore
	broker *Broker
	logger *slog.Logger
	writes chan func(context.Context) error
}

// NewGameEvents builds the hook set the registry hands to every actor.
func NewGameEvents(store *AuditStore, broker *Broker, logger *slog.Logger) game.Events {
	e := &gameEvents{
		store:  store,
		broker: broker,
		logger: logger,
		writes: make(chan func(context.Context) error, 256),
	}
	go e.writer()
	return e
}

func (e *gameEvents) writer() {
	for write := range e.writes {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		if err := write(ctx); err != nil {
			e.logger.Error("audit write failed", "error", err)
		}
		cancel()
	}
}

func (e *gameEvents) GameCreated(code string, teams []string) {
	e.audit(func(ctx context.Context) error {
		return e.store.RecordGame(ctx, code, teams)
	})
}

func (e *gameEvents) StateChanged(code string, snapshot []byte) {
	e.broker.Publish(code, snapshot)
}

func (e *gameEvents) BuzzWon(code, team, user string) {
	e.audit(func(ctx context.Context) error {
		return e.store.RecordBuzz(ctx, code, team, user)
	})
}

func (e *gameEvents) GameDiscarded(code string) {
	e.audit(func(ctx context.Context) error {
		return e.store.RecordDiscard(ctx, code)
	})
}

func (e *gameEvents) audit(write func(context.Context) error) {
	select {
	case e.writes <- write:
	default:
		e.logger.Warn("audit queue full, dropping write")
	}
}
