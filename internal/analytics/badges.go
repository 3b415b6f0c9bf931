package analytics

import "dartscorer/internal/game"

type BadgeID string

const (
	BadgeTonEighty    BadgeID = "ton-eighty"
	BadgeBigCheckout  BadgeID = "big-checkout"
	BadgeShanghai     BadgeID = "shanghai"
	BadgeSurvivor     BadgeID = "survivor"
	BadgeSharpshooter BadgeID = "sharpshooter"
	BadgeVeteran      BadgeID = "veteran"
	BadgeUnstoppable  BadgeID = "unstoppable"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

var AllBadges = map[BadgeID]Badge{
	BadgeTonEighty:    {ID: BadgeTonEighty, Name: "Ton Eighty", Description: "Scored 180 in one turn", Icon: "🎯"},
	BadgeBigCheckout:  {ID: BadgeBigCheckout, Name: "Big Fish", Description: "Checked out 100 or more", Icon: "🐟"},
	BadgeShanghai:     {ID: BadgeShanghai, Name: "Shanghai", Description: "Single, double and triple of the round number in one turn", Icon: "🏮"},
	BadgeSurvivor:     {ID: BadgeSurvivor, Name: "Survivor", Description: "Finished Bob's 27 without dropping below zero", Icon: "🛡️"},
	BadgeSharpshooter: {ID: BadgeSharpshooter, Name: "Sharpshooter", Description: "5+ bulls in a single session", Icon: "🔴"},
	BadgeVeteran:      {ID: BadgeVeteran, Name: "Veteran", Description: "Played 10+ sessions", Icon: "🏅"},
	BadgeUnstoppable:  {ID: BadgeUnstoppable, Name: "Unstoppable", Description: "3-session win streak", Icon: "🔥"},
}

// EvaluateSessionBadges checks which badges a player earned in one session.
func EvaluateSessionBadges(r game.ResultSummary) []Badge {
	var earned []Badge

	if v, ok := r.Stat("180s"); ok && v >= 1 {
		earned = append(earned, AllBadges[BadgeTonEighty])
	}

	if v, ok := r.Stat("highest_checkout"); ok && v >= 100 {
		earned = append(earned, AllBadges[BadgeBigCheckout])
	}

	if r.GameID == game.Shanghai {
		if v, _ := r.Stat("shanghai"); v >= 1 {
			earned = append(earned, AllBadges[BadgeShanghai])
		}
	}

	if r.GameID == game.Bobs27 {
		if v, ok := r.Stat("eliminated"); ok && v == 0 {
			earned = append(earned, AllBadges[BadgeSurvivor])
		}
	}

	if r.Distribution.Bulls >= 5 {
		earned = append(earned, AllBadges[BadgeSharpshooter])
	}

	return earned
}

// EvaluateLifetimeBadges checks which badges a player earned across their career.
func EvaluateLifetimeBadges(stats PlayerLifetimeStats) []Badge {
	var earned []Badge

	if stats.WinStreak >= 3 {
		earned = append(earned, AllBadges[BadgeUnstoppable])
	}

	if stats.GamesPlayed >= 10 {
		earned = append(earned, AllBadges[BadgeVeteran])
	}

	return earned
}
