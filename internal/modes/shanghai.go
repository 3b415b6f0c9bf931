package modes

import (
	"fmt"
	"math/rand/v2"

	"dartscorer/internal/game"
)

type Shanghai struct{}

func (Shanghai) Config() game.ModeConfig {
	return game.ModeConfig{
		ID:           game.Shanghai,
		Name:         "Shanghai",
		Configurable: true,
		Rules:        "Each round has one target number. Score the number times the multiplier. A single, double and triple of the target in one turn is a Shanghai and wins instantly.",
		Input:        game.InputThrows,
		Defaults:     game.Options{Rounds: 7, Order: game.OrderAscending},
	}
}

func (Shanghai) GenerateTargets(opts game.Options, rng *rand.Rand) []game.Target {
	rounds := 7
	if opts.Rounds == 20 {
		rounds = 20
	}
	return ordered(numbers(1, rounds), opts.Order, rng)
}

func (Shanghai) InitPlayer(p *game.Player, _ game.Options, _ []game.Target) {
	p.Score = 0
	p.Finished = false
}

func (Shanghai) HandleInput(s *game.Session, p *game.Player, in game.Input) game.TurnResult {
	target, _ := s.RoundTarget()
	t := in.Throw
	t.Points = 0
	if onNumber(t, target) {
		t.Points = t.Value()
	}
	p.Score += t.Points
	s.AddDart(t)

	if !s.TurnFull() {
		return game.Continue()
	}
	shanghai := isShanghai(s, target)
	s.CloseTurn(p, game.Turn{Target: target, Score: turnPoints(s.TempDarts), LegFinish: shanghai})
	if shanghai {
		return game.TurnResult{Action: game.ActionWinMatch}.WithOverlay("SHANGHAI!", "shanghai")
	}
	if s.FinalRound(len(s.Targets)) {
		return game.TurnResult{Action: game.ActionFinishGame}
	}
	return game.NextTurn()
}

// isShanghai reports whether the buffered turn holds a single, a double and
// a triple of target in any order.
func isShanghai(s *game.Session, target game.Target) bool {
	if len(s.TempDarts) != game.MaxDarts {
		return false
	}
	var seen [4]bool
	for _, d := range s.TempDarts {
		if !onNumber(d, target) {
			return false
		}
		seen[d.Multiplier] = true
	}
	return seen[1] && seen[2] && seen[3]
}

func (Shanghai) ResultData(s *game.Session, p *game.Player) game.ResultSummary {
	r := game.NewSummary(s, p)
	r.Score = p.Score
	hits, best, shanghais := 0, 0, 0
	for _, t := range p.Turns {
		hits += hitCount(t.Darts)
		best = max(best, t.Score)
		if t.LegFinish {
			shanghais++
		}
	}
	r.Add("points", "Points", float64(p.Score))
	r.Add("hit_rate", "Hit rate", game.Ratio(float64(hits), float64(r.Darts)))
	r.Add("best_round", "Best round", float64(best))
	r.Add("shanghai", "Shanghai", float64(shanghais))
	r.Series = series(p)
	return r
}

func (Shanghai) WinMessage(s *game.Session, winner *game.Player, res game.TurnResult) game.WinMessage {
	if res.Action == game.ActionWinMatch && winner != nil {
		return game.WinMessage{
			Title:     "Shanghai!",
			Body:      fmt.Sprintf("%s hits single, double and triple in one turn", winner.Name),
			NextLabel: "Play again",
		}
	}
	return finishMessage(s, winner, "points", scoreOf(winner))
}
