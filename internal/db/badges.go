package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AwardBadge records a badge once per player. gameID may be empty for
// lifetime badges.
func (d *DB) AwardBadge(ctx context.Context, playerID, badgeID, gameID string) error {
	_, err := d.Exec(ctx, `
		INSERT INTO player_badges (player_id, badge_id, game_id, awarded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (player_id, badge_id) DO NOTHING
	`, playerID, badgeID, sql.NullString{String: gameID, Valid: gameID != ""}, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}
	return nil
}

func (d *DB) GetPlayerBadges(ctx context.Context, playerID string) ([]string, error) {
	rows, err := d.Query(ctx, `
		SELECT badge_id FROM player_badges WHERE player_id = ? ORDER BY awarded_at, badge_id
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("getting badges: %w", err)
	}
	defer rows.Close()

	var badges []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		badges = append(badges, id)
	}
	return badges, rows.Err()
}
