package db

import (
	"context"
	"fmt"
)

type PlayerRecord struct {
	ID    string
	Name  string
	Color string
}

const upsertPlayerSQL = `
	INSERT INTO players (id, name, color)
	VALUES (?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		color = CASE WHEN excluded.color = '' THEN players.color ELSE excluded.color END
`

// UpsertPlayer stores a player. An empty color keeps the stored one.
func (d *DB) UpsertPlayer(ctx context.Context, id, name, color string) error {
	if _, err := d.Exec(ctx, upsertPlayerSQL, id, name, color); err != nil {
		return fmt.Errorf("upserting player: %w", err)
	}
	return nil
}

func (d *DB) GetPlayer(ctx context.Context, id string) (*PlayerRecord, error) {
	var p PlayerRecord
	err := d.QueryRow(ctx, `
		SELECT id, name, color FROM players WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Color)
	if err != nil {
		return nil, fmt.Errorf("getting player: %w", err)
	}
	return &p, nil
}
