package analytics

import "dartscorer/internal/game"

type ModeRecord struct {
	GameID game.GameID `json:"gameId"`
	Played int         `json:"played"`
	Won    int         `json:"won"`
}

type PlayerLifetimeStats struct {
	PlayerID    string       `json:"playerId"`
	PlayerName  string       `json:"playerName"`
	PlayerColor string       `json:"playerColor"`
	GamesPlayed int          `json:"gamesPlayed"`
	WinCount    int          `json:"winCount"`
	WinStreak   int          `json:"winStreak"`
	Darts       int          `json:"darts"`
	Triples     int          `json:"triples"`
	Bulls       int          `json:"bulls"`
	Modes       []ModeRecord `json:"modes"`
	Badges      []Badge      `json:"badges"`
}

type LeaderboardEntry struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	PlayerColor string `json:"playerColor"`
	Value       int    `json:"value"`
	Rank        int    `json:"rank"`
}
