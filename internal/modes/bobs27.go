package modes

import (
	"fmt"
	"math/rand/v2"

	"dartscorer/internal/game"
)

const bobsStart = 27

type Bobs27 struct{}

func (Bobs27) Config() game.ModeConfig {
	return game.ModeConfig{
		ID:    game.Bobs27,
		Name:  "Bob's 27",
		Rules: "Start on 27 and throw three darts at each double from 1 to 20 and then the bull. Every hit adds the double's value; a turn without a hit takes it away. Drop below zero and you are out.",
		Input: game.InputHits,
	}
}

func (Bobs27) GenerateTargets(game.Options, *rand.Rand) []game.Target {
	return append(numbers(1, 20), game.TargetBull)
}

func (Bobs27) InitPlayer(p *game.Player, _ game.Options, _ []game.Target) {
	p.Residual = bobsStart
	p.Score = 0
	p.Eliminated = false
	p.Finished = false
}

func (Bobs27) HandleInput(s *game.Session, p *game.Player, in game.Input) game.TurnResult {
	target, _ := s.RoundTarget()
	if in.Signal {
		return bobsResolve(s, p, target, in.Hits)
	}

	t := in.Throw
	t.Points = 0
	if t.IsDouble() && onNumber(t, target) {
		t.Points = t.Value()
	}
	s.AddDart(t)
	if !s.TurnFull() {
		return game.Continue()
	}
	return bobsResolve(s, p, target, hitCount(s.TempDarts))
}

func bobsResolve(s *game.Session, p *game.Player, target game.Target, hits int) game.TurnResult {
	n, _ := target.Number()
	delta := -2 * n
	if hits > 0 {
		delta = 2 * n * hits
	}
	p.Residual += delta
	p.Score = p.Residual
	s.CloseTurn(p, game.Turn{Target: target, Score: delta, Hits: hits})

	res := game.NextTurn()
	if p.Residual < 0 {
		p.Eliminated = true
		p.Finished = true
		res = res.WithOverlay(fmt.Sprintf("%s IS OUT", p.Name), "eliminated")
	}
	if s.AllFinished() || s.FinalRound(len(s.Targets)) {
		res.Action = game.ActionFinishGame
	}
	return res
}

func (Bobs27) ResultData(s *game.Session, p *game.Player) game.ResultSummary {
	r := game.NewSummary(s, p)
	r.Score = p.Residual
	hits, rounds, best := 0, 0, 0
	for _, t := range p.Turns {
		hits += t.Hits
		rounds++
		best = max(best, t.Score)
	}
	darts := rounds * game.MaxDarts
	r.Add("final", "Final score", float64(p.Residual))
	r.Add("hits", "Doubles hit", float64(hits))
	r.Add("hit_rate", "Double rate", game.Ratio(float64(hits), float64(darts)))
	r.Add("rounds", "Rounds survived", float64(rounds))
	r.Add("best_round", "Best round", float64(best))
	eliminated := 0.0
	if p.Eliminated {
		eliminated = 1
	}
	r.Add("eliminated", "Eliminated", eliminated)

	r.Series = make([]game.Point, 0, len(p.Turns))
	running := bobsStart
	for _, t := range p.Turns {
		running += t.Score
		r.Series = append(r.Series, game.Point{Label: string(t.Target), Value: float64(running)})
	}
	return r
}

func (Bobs27) WinMessage(s *game.Session, winner *game.Player, _ game.TurnResult) game.WinMessage {
	if winner != nil && winner.Eliminated {
		return game.WinMessage{Title: "Game over", Body: fmt.Sprintf("%s dropped below zero", winner.Name), NextLabel: "Try again"}
	}
	residual := 0
	if winner != nil {
		residual = winner.Residual
	}
	return finishMessage(s, winner, "points", residual)
}
