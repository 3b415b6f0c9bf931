package analytics

import (
	"context"
	"errors"
	"fmt"

	"dartscorer/internal/db"
	"dartscorer/internal/game"
)

var ErrUnknownCategory = errors.New("unknown leaderboard category")

// Leaderboard categories.
const (
	CategoryWins    = "wins"
	CategoryGames   = "games"
	CategoryTriples = "triples"
	CategoryBulls   = "bulls"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

func (q *Queries) GetPlayerLifetimeStats(ctx context.Context, playerID string) (*PlayerLifetimeStats, error) {
	stats := &PlayerLifetimeStats{
		PlayerID: playerID,
	}

	p, err := q.DB.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	stats.PlayerName, stats.PlayerColor = p.Name, p.Color

	err = q.DB.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN winner THEN 1 ELSE 0 END), 0)
		FROM game_players
		WHERE player_id = ?
	`, playerID).Scan(&stats.GamesPlayed, &stats.WinCount)
	if err != nil {
		return nil, fmt.Errorf("getting lifetime stats: %w", err)
	}

	err = q.DB.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN multiplier = 3 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN base = 25 THEN 1 ELSE 0 END), 0)
		FROM throw_events
		WHERE player_id = ? AND NOT is_signal
	`, playerID).Scan(&stats.Darts, &stats.Triples, &stats.Bulls)
	if err != nil {
		return nil, fmt.Errorf("getting throw stats: %w", err)
	}

	if stats.Modes, err = q.modeRecords(ctx, playerID); err != nil {
		return nil, err
	}
	if stats.WinStreak, err = q.winStreak(ctx, playerID); err != nil {
		return nil, err
	}

	ids, err := q.DB.GetPlayerBadges(ctx, playerID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if b, ok := AllBadges[BadgeID(id)]; ok {
			stats.Badges = append(stats.Badges, b)
		}
	}

	return stats, nil
}

func (q *Queries) modeRecords(ctx context.Context, playerID string) ([]ModeRecord, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT g.game_mode, COUNT(*), COALESCE(SUM(CASE WHEN gp.winner THEN 1 ELSE 0 END), 0)
		FROM game_players gp
		JOIN games g ON g.id = gp.game_id
		WHERE gp.player_id = ?
		GROUP BY g.game_mode
		ORDER BY g.game_mode
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("getting mode records: %w", err)
	}
	defer rows.Close()

	var out []ModeRecord
	for rows.Next() {
		var (
			m    ModeRecord
			mode string
		)
		if err := rows.Scan(&mode, &m.Played, &m.Won); err != nil {
			return nil, err
		}
		m.GameID = game.GameID(mode)
		out = append(out, m)
	}
	return out, rows.Err()
}

// winStreak counts consecutive wins ending with the most recent session.
func (q *Queries) winStreak(ctx context.Context, playerID string) (int, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT gp.winner
		FROM game_players gp
		JOIN games g ON g.id = gp.game_id
		WHERE gp.player_id = ?
		ORDER BY g.ended_at DESC
	`, playerID)
	if err != nil {
		return 0, fmt.Errorf("getting win streak: %w", err)
	}
	defer rows.Close()

	streak := 0
	for rows.Next() {
		var won bool
		if err := rows.Scan(&won); err != nil {
			return 0, err
		}
		if !won {
			break
		}
		streak++
	}
	return streak, rows.Err()
}

func (q *Queries) GetLeaderboard(ctx context.Context, category string, limit int) ([]LeaderboardEntry, error) {
	var query string
	switch category {
	case CategoryWins:
		query = `
			SELECT p.id, p.name, p.color, SUM(CASE WHEN gp.winner THEN 1 ELSE 0 END) AS value
			FROM players p
			JOIN game_players gp ON gp.player_id = p.id
			GROUP BY p.id, p.name, p.color
			ORDER BY value DESC, p.name
			LIMIT ?`
	case CategoryGames:
		query = `
			SELECT p.id, p.name, p.color, COUNT(*) AS value
			FROM players p
			JOIN game_players gp ON gp.player_id = p.id
			GROUP BY p.id, p.name, p.color
			ORDER BY value DESC, p.name
			LIMIT ?`
	case CategoryTriples:
		query = `
			SELECT p.id, p.name, p.color, SUM(CASE WHEN te.multiplier = 3 THEN 1 ELSE 0 END) AS value
			FROM players p
			JOIN throw_events te ON te.player_id = p.id
			GROUP BY p.id, p.name, p.color
			ORDER BY value DESC, p.name
			LIMIT ?`
	case CategoryBulls:
		query = `
			SELECT p.id, p.name, p.color, SUM(CASE WHEN te.base = 25 THEN 1 ELSE 0 END) AS value
			FROM players p
			JOIN throw_events te ON te.player_id = p.id
			GROUP BY p.id, p.name, p.color
			ORDER BY value DESC, p.name
			LIMIT ?`
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	rows, err := q.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.PlayerName, &e.PlayerColor, &e.Value); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetGameRecap loads a finished session with its ranked players.
func (q *Queries) GetGameRecap(ctx context.Context, gameID string) (*db.GameRecord, error) {
	return q.DB.GetGame(ctx, gameID)
}
