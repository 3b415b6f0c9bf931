package analytics

import (
	"context"

	"github.com/rs/zerolog/log"

	"dartscorer/internal/db"
	"dartscorer/internal/engine"
)

// Archive persists finished sessions and awards badges. It satisfies
// engine.Sink.
type Archive struct {
	DB      *db.DB
	Queries *Queries
}

func NewArchive(database *db.DB) *Archive {
	return &Archive{DB: database, Queries: NewQueries(database)}
}

func (a *Archive) SaveSession(ctx context.Context, rec engine.Record) error {
	if err := a.DB.SaveSession(ctx, rec); err != nil {
		return err
	}
	gameID := rec.Session.ID
	for _, sum := range rec.Summaries {
		for _, b := range EvaluateSessionBadges(sum) {
			if err := a.DB.AwardBadge(ctx, sum.PlayerID, string(b.ID), gameID); err != nil {
				log.Error().Err(err).Str("player", sum.PlayerID).Str("badge", string(b.ID)).Msg("award badge")
			}
		}
		life, err := a.Queries.GetPlayerLifetimeStats(ctx, sum.PlayerID)
		if err != nil {
			log.Error().Err(err).Str("player", sum.PlayerID).Msg("lifetime stats")
			continue
		}
		for _, b := range EvaluateLifetimeBadges(*life) {
			if err := a.DB.AwardBadge(ctx, sum.PlayerID, string(b.ID), ""); err != nil {
				log.Error().Err(err).Str("player", sum.PlayerID).Str("badge", string(b.ID)).Msg("award badge")
			}
		}
	}
	log.Info().Str("session", gameID).Int("players", len(rec.Summaries)).Msg("session archived")
	return nil
}
