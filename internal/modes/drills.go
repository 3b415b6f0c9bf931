package modes

import (
	"math/rand/v2"

	"dartscorer/internal/game"
)

type ScoringDrill struct{}

func (ScoringDrill) Config() game.ModeConfig {
	return game.ModeConfig{
		ID:           game.ScoringDrill,
		Name:         "Scoring Drill",
		Configurable: true,
		Rules:        "Score as many points as you can with a fixed number of darts (33, 66 or 99).",
		Input:        game.InputThrows,
		Defaults:     game.Options{DartLimit: 99},
	}
}

func (ScoringDrill) GenerateTargets(game.Options, *rand.Rand) []game.Target { return nil }

func (ScoringDrill) InitPlayer(p *game.Player, _ game.Options, _ []game.Target) {
	p.Score = 0
	p.DartsThrown = 0
	p.Finished = false
}

func (ScoringDrill) HandleInput(s *game.Session, p *game.Player, in game.Input) game.TurnResult {
	t := in.Throw
	t.Points = t.Value()
	p.Score += t.Points
	p.DartsThrown++
	s.AddDart(t)

	limit := orDefault(s.Options.DartLimit, 99)
	done := p.DartsThrown >= limit
	if !done && !s.TurnFull() {
		return game.Continue()
	}
	score := turnPoints(s.TempDarts)
	s.CloseTurn(p, game.Turn{Score: score})
	res := scoreOverlay(game.NextTurn(), score)
	if done {
		p.Finished = true
		if s.AllFinished() {
			res.Action = game.ActionFinishGame
		}
	}
	return res
}

func (ScoringDrill) ResultData(s *game.Session, p *game.Player) game.ResultSummary {
	r := game.NewSummary(s, p)
	r.Score = p.Score
	var tons, ton40s, maxes, best int
	for _, t := range p.Turns {
		best = max(best, t.Score)
		if len(t.Darts) < game.MaxDarts {
			continue
		}
		switch {
		case t.Score == 180:
			maxes++
		case t.Score >= 140:
			ton40s++
		case t.Score >= 100:
			tons++
		}
	}
	r.Add("points", "Points", float64(p.Score))
	r.Add("average", "3-dart average", game.Ratio(float64(p.Score)*3, float64(p.DartsThrown)))
	r.Add("best_turn", "Best turn", float64(best))
	r.Add("100s", "100+", float64(tons))
	r.Add("140s", "140+", float64(ton40s))
	r.Add("180s", "180s", float64(maxes))
	r.Series = series(p)
	return r
}

func (ScoringDrill) WinMessage(s *game.Session, winner *game.Player, _ game.TurnResult) game.WinMessage {
	return finishMessage(s, winner, "points", scoreOf(winner))
}

type SingleTraining struct{}

func (SingleTraining) Config() game.ModeConfig {
	return game.ModeConfig{
		ID:    game.SingleTraining,
		Name:  "Single Training",
		Rules: "One round each for 1 to 20 and the bull. A single scores 1, a double 2 and a triple 3.",
		Input: game.InputThrows,
	}
}

func (SingleTraining) GenerateTargets(game.Options, *rand.Rand) []game.Target {
	return append(numbers(1, 20), game.TargetBull)
}

func (SingleTraining) InitPlayer(p *game.Player, _ game.Options, _ []game.Target) {
	p.Score = 0
	p.Finished = false
}

func (SingleTraining) HandleInput(s *game.Session, p *game.Player, in game.Input) game.TurnResult {
	target, _ := s.RoundTarget()
	t := in.Throw
	t.Points = 0
	if onNumber(t, target) {
		t.Points = t.Multiplier
	}
	p.Score += t.Points
	s.AddDart(t)

	if !s.TurnFull() {
		return game.Continue()
	}
	s.CloseTurn(p, game.Turn{Target: target, Score: turnPoints(s.TempDarts), Hits: hitCount(s.TempDarts)})
	if s.FinalRound(len(s.Targets)) {
		return game.TurnResult{Action: game.ActionFinishGame}
	}
	return game.NextTurn()
}

func (SingleTraining) ResultData(s *game.Session, p *game.Player) game.ResultSummary {
	r := game.NewSummary(s, p)
	r.Score = p.Score
	hits := 0
	for _, t := range p.Turns {
		hits += t.Hits
	}
	r.Add("points", "Points", float64(p.Score))
	r.Add("hit_rate", "Hit rate", game.Ratio(float64(hits), float64(r.Darts)))
	possible := 0
	for _, tg := range s.Targets {
		if tg == game.TargetBull {
			possible += game.MaxDarts * 2
		} else {
			possible += game.MaxDarts * 3
		}
	}
	r.Add("max_points", "Possible", float64(possible))
	r.Series = make([]game.Point, 0, len(p.Turns))
	for _, t := range p.Turns {
		r.Series = append(r.Series, game.Point{Label: string(t.Target), Value: float64(t.Score)})
	}
	return r
}

func (SingleTraining) WinMessage(s *game.Session, winner *game.Player, _ game.TurnResult) game.WinMessage {
	return finishMessage(s, winner, "points", scoreOf(winner))
}
