package server

import (
	"context"
	"testing"

	"github.com/playperu/teambuzzer/internal/database"
	"github.com/playperu/teambuzzer/internal/migrations"
)

func setupStore(t *testing.T) *AuditStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return NewAuditStore(db)
}

func TestRecordAndListGames(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.RecordGame(ctx, "ABCD", []string{"Red", "Blue"}); err != nil {
		t.Fatalf("recording game: %v", err)
	}
	if err := store.RecordGame(ctx, "EFGH", []string{"Green"}); err != nil {
		t.Fatalf("recording game: %v", err)
	}

	games, err := store.ListGames(ctx, 10)
	if err != nil {
		t.Fatalf("listing games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	for _, g := range games {
		if g.DiscardedAt != nil {
			t.Errorf("game %s already discarded", g.Code)
		}
	}

	var abcd *GameRecord
	for i := range games {
		if games[i].Code == "ABCD" {
			abcd = &games[i]
		}
	}
	if abcd == nil {
		t.Fatalf("game ABCD not listed")
	}
	if len(abcd.Teams) != 2 || abcd.Teams[0] != "Red" || abcd.Teams[1] != "Blue" {
		t.Fatalf("teams = %v, want [Red Blue]", abcd.Teams)
	}
}

func TestListGamesRespectsLimit(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, code := range []string{"AAAA", "BBBB", "CCCC"} {
		if err := store.RecordGame(ctx, code, []string{"Red"}); err != nil {
			t.Fatalf("recording game: %v", err)
		}
	}

	games, err := store.ListGames(ctx, 2)
	if err != nil {
		t.Fatalf("listing games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
}

func TestRecordBuzzAndDiscard(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.RecordGame(ctx, "ABCD", []string{"Red"}); err != nil {
		t.Fatalf("recording game: %v", err)
	}
	if err := store.RecordBuzz(ctx, "ABCD", "Red", "Ann"); err != nil {
		t.Fatalf("recording buzz: %v", err)
	}
	if err := store.RecordDiscard(ctx, "ABCD"); err != nil {
		t.Fatalf("recording discard: %v", err)
	}

	buzzes, err := store.ListBuzzes(ctx, "ABCD")
	if err != nil {
		t.Fatalf("listing buzzes: %v", err)
	}
	if len(buzzes) != 1 || buzzes[0].Team != "Red" || buzzes[0].User != "Ann" {
		t.Fatalf("buzzes = %+v, want one Red/Ann entry", buzzes)
	}

	games, err := store.ListGames(ctx, 10)
	if err != nil {
		t.Fatalf("listing games: %v", err)
	}
	if games[0].DiscardedAt == nil {
		t.Fatalf("discard not recorded")
	}
}

// A code freed by eviction can be minted again; buzzes of the new game must
// attach to the new row, not the discarded one.
func TestRecordBuzzTargetsOpenGame(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.RecordGame(ctx, "ABCD", []string{"Red"}); err != nil {
		t.Fatalf("recording first game: %v", err)
	}
	if err := store.RecordDiscard(ctx, "ABCD"); err != nil {
		t.Fatalf("recording discard: %v", err)
	}
	if err := store.RecordGame(ctx, "ABCD", []string{"Blue"}); err != nil {
		t.Fatalf("recording second game: %v", err)
	}
	if err := store.RecordBuzz(ctx, "ABCD", "Blue", "Bo"); err != nil {
		t.Fatalf("recording buzz: %v", err)
	}

	var gameID, discardedID string
	row := store.db.QueryRowContext(ctx, `
		SELECT game_id FROM buzz_events LIMIT 1
	`)
	if err := row.Scan(&gameID); err != nil {
		t.Fatalf("reading buzz row: %v", err)
	}
	row = store.db.QueryRowContext(ctx, `
		SELECT id FROM games WHERE discarded_at IS NOT NULL
	`)
	if err := row.Scan(&discardedID); err != nil {
		t.Fatalf("reading discarded game: %v", err)
	}
	if gameID == discardedID {
		t.Fatalf("buzz attached to the discarded game")
	}
}

func TestRecordBuzzWithoutGameIsNoop(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.RecordBuzz(ctx, "ZZZZ", "Red", "Ann"); err != nil {
		t.Fatalf("recording buzz without game: %v", err)
	}

	var n int
	if err := store.db.QueryRowContext(ctx, `SELECT count(*) FROM buzz_events`).Scan(&n); err != nil {
		t.Fatalf("counting buzzes: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d buzz rows, want 0", n)
	}
}
