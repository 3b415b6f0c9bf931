package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"dartscorer/internal/engine"
	"dartscorer/internal/game"
	"dartscorer/internal/modes"
)

type GameRecord struct {
	ID        string             `json:"id"`
	GameMode  game.GameID        `json:"gameMode"`
	Options   game.Options       `json:"options"`
	WinnerID  string             `json:"winnerId,omitempty"`
	Legs      int                `json:"legs"`
	StartedAt time.Time          `json:"startedAt"`
	EndedAt   time.Time          `json:"endedAt"`
	Players   []GamePlayerRecord `json:"players"`
}

type GamePlayerRecord struct {
	PlayerID   string             `json:"playerId"`
	Name       string             `json:"name"`
	Position   int                `json:"position"`
	FinalScore int                `json:"finalScore"`
	Rank       int                `json:"rank"`
	Winner     bool               `json:"winner"`
	Darts      int                `json:"darts"`
	Summary    game.ResultSummary `json:"summary"`
}

// SaveSession persists a finished session and its per-player summaries in
// one transaction. It satisfies engine.Sink.
func (d *DB) SaveSession(ctx context.Context, rec engine.Record) error {
	s := rec.Session
	opts, err := json.Marshal(s.Options)
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range s.Players {
		if _, err := tx.ExecContext(ctx, d.rebind(upsertPlayerSQL), p.ID, p.Name, ""); err != nil {
			return fmt.Errorf("upserting player: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, d.rebind(`
		INSERT INTO games (id, game_mode, options, winner_id, legs, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), s.ID, string(s.GameID), string(opts), sql.NullString{String: s.Winner, Valid: s.Winner != ""},
		s.Leg+1, s.StartedAt.UTC(), s.EndedAt.UTC())
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	position := make(map[string]int, len(s.Players))
	for i, p := range s.Players {
		position[p.ID] = i
	}
	for i, sum := range rankSummaries(rec.Summaries, lowerIsBetter(s.GameID)) {
		body, err := json.Marshal(sum)
		if err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
		_, err = tx.ExecContext(ctx, d.rebind(`
			INSERT INTO game_players (game_id, player_id, position, final_score, rank, winner, darts, summary)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`), s.ID, sum.PlayerID, position[sum.PlayerID], sum.Score, i+1, sum.Winner, sum.Darts, string(body))
		if err != nil {
			return fmt.Errorf("adding game player: %w", err)
		}
	}

	return tx.Commit()
}

func lowerIsBetter(id game.GameID) bool {
	st, err := modes.Lookup(id)
	return err == nil && st.Config().LowerIsBetter
}

// rankSummaries orders summaries winner first, then by score.
func rankSummaries(in []game.ResultSummary, lowerIsBetter bool) []game.ResultSummary {
	out := append([]game.ResultSummary(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Winner != out[j].Winner {
			return out[i].Winner
		}
		if lowerIsBetter {
			return out[i].Score < out[j].Score
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// GetGame loads a persisted session with its players in rank order.
func (d *DB) GetGame(ctx context.Context, id string) (*GameRecord, error) {
	g := &GameRecord{ID: id}
	var (
		mode, opts string
		winner     sql.NullString
	)
	err := d.QueryRow(ctx, `
		SELECT game_mode, options, winner_id, legs, started_at, ended_at FROM games WHERE id = ?
	`, id).Scan(&mode, &opts, &winner, &g.Legs, &g.StartedAt, &g.EndedAt)
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}
	g.GameMode = game.GameID(mode)
	g.WinnerID = winner.String
	if err := json.Unmarshal([]byte(opts), &g.Options); err != nil {
		return nil, fmt.Errorf("decoding options: %w", err)
	}

	rows, err := d.Query(ctx, `
		SELECT gp.player_id, p.name, gp.position, gp.final_score, gp.rank, gp.winner, gp.darts, gp.summary
		FROM game_players gp
		JOIN players p ON p.id = gp.player_id
		WHERE gp.game_id = ?
		ORDER BY gp.rank
	`, id)
	if err != nil {
		return nil, fmt.Errorf("getting game players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			gp      GamePlayerRecord
			summary string
		)
		if err := rows.Scan(&gp.PlayerID, &gp.Name, &gp.Position, &gp.FinalScore, &gp.Rank, &gp.Winner, &gp.Darts, &summary); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(summary), &gp.Summary); err != nil {
			return nil, fmt.Errorf("decoding summary: %w", err)
		}
		g.Players = append(g.Players, gp)
	}
	return g, rows.Err()
}

// RecentGameIDs lists the newest finished sessions first.
func (d *DB) RecentGameIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := d.Query(ctx, `SELECT id FROM games ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
