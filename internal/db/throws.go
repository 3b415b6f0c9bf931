package db

import (
	"context"
	"fmt"

	"dartscorer/internal/engine"
)

const insertThrowSQL = `
	INSERT INTO throw_events (game_id, game_mode, player_id, leg, round_no, dart, segment, base, multiplier, points, hits, is_signal, thrown_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func throwArgs(ev engine.ThrowEvent) []any {
	return []any{
		ev.SessionID, string(ev.GameID), ev.PlayerID, ev.Leg, ev.Round, ev.Dart,
		ev.Throw.Segment, ev.Throw.Base, ev.Throw.Multiplier, ev.Throw.Points,
		ev.Hits, ev.Signal, ev.At.UTC(),
	}
}

func (d *DB) RecordThrow(ctx context.Context, ev engine.ThrowEvent) error {
	if _, err := d.Exec(ctx, insertThrowSQL, throwArgs(ev)...); err != nil {
		return fmt.Errorf("recording throw: %w", err)
	}
	return nil
}

// BatchRecordThrows writes events in a single transaction.
func (d *DB) BatchRecordThrows(ctx context.Context, events []engine.ThrowEvent) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, d.rebind(insertThrowSQL))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, throwArgs(ev)...); err != nil {
			return fmt.Errorf("recording throw in batch: %w", err)
		}
	}

	return tx.Commit()
}

// CountThrows returns how many events are stored for a session.
func (d *DB) CountThrows(ctx context.Context, gameID string) (int, error) {
	var n int
	if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM throw_events WHERE game_id = ?`, gameID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting throws: %w", err)
	}
	return n, nil
}
