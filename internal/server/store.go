package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// GameRecord is one row of the games audit log.
type GameRecord struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	Teams       []string `json:"teams"`
	CreatedAt   string   `json:"createdAt"`
	DiscardedAt *string  `json:"discardedAt,omitempty"`
}

// BuzzRecord is one winning buzz of a past or live game.
type BuzzRecord struct {
	ID       string `json:"id"`
	Team     string `json:"team"`
	User     string `json:"user"`
	BuzzedAt string `json:"buzzedAt"`
}

// AuditStore is the append-only history of games and winning buzzes. Live
// game state never touches it; a process restart starts with an empty
// registry but a full history.
type AuditStore struct {
	db *sql.DB
}

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

// RecordGame inserts a row for a freshly created game.
func (s *AuditStore) RecordGame(ctx context.Context, code string, teams []string) error {
	teamsJSON, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("encoding teams: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (id, code, teams)
		VALUES (?, ?, ?)
	`, uuid.NewString(), code, string(teamsJSON))
	if err != nil {
		return fmt.Errorf("recording game %s: %w", code, err)
	}
	return nil
}

// RecordDiscard stamps the live game with the given code as discarded.
// Codes are reused after eviction, so only the open row is touched.
func (s *AuditStore) RecordDiscard(ctx context.Context, code string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE games SET discarded_at = datetime('now')
		WHERE id = (
			SELECT id FROM games
			WHERE code = ? AND discarded_at IS NULL
			ORDER BY created_at DESC LIMIT 1
		)
	`, code)
	if err != nil {
		return fmt.Errorf("recording discard of %s: %w", code, err)
	}
	return nil
}

// RecordBuzz appends a winning buzz to the live game with the given code.
func (s *AuditStore) RecordBuzz(ctx context.Context, code, team, user string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO buzz_events (id, game_id, team_name, user_name)
		SELECT ?, id, ?, ?
		FROM games
		WHERE code = ? AND discarded_at IS NULL
		ORDER BY created_at DESC LIMIT 1
	`, uuid.NewString(), team, user, code)
	if err != nil {
		return fmt.Errorf("recording buzz for %s: %w", code, err)
	}
	return nil
}

// ListGames returns the most recently created games, newest first.
func (s *AuditStore) ListGames(ctx context.Context, limit int) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, teams, created_at, discarded_at
		FROM games
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var teamsJSON string
		var discarded sql.NullString
		if err := rows.Scan(&g.ID, &g.Code, &teamsJSON, &g.CreatedAt, &discarded); err != nil {
			return nil, fmt.Errorf("scanning game row: %w", err)
		}
		if err := json.Unmarshal([]byte(teamsJSON), &g.Teams); err != nil {
			return nil, fmt.Errorf("decoding teams of %s: %w", g.ID, err)
		}
		if discarded.Valid {
			g.DiscardedAt = &discarded.String
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// ListBuzzes returns every recorded buzz for games that used the given code,
// oldest first.
func (s *AuditStore) ListBuzzes(ctx context.Context, code string) ([]BuzzRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.team_name, b.user_name, b.buzzed_at
		FROM buzz_events b
		JOIN games g ON g.id = b.game_id
		WHERE g.code = ?
		ORDER BY b.buzzed_at, b.id
	`, code)
	if err != nil {
		return nil, fmt.Errorf("listing buzzes for %s: %w", code, err)
	}
	defer rows.Close()

	var buzzes []BuzzRecord
	for rows.Next() {
		var b BuzzRecord
		if err := rows.Scan(&b.ID, &b.Team, &b.User, &b.BuzzedAt); err != nil {
			return nil, fmt.Errorf("scanning buzz row: %w", err)
		}
		buzzes = append(buzzes, b)
	}
	return buzzes, rows.Err()
}
