package modes

import (
	"fmt"
	"math/rand/v2"

	"dartscorer/internal/game"
)

type AroundTheBoard struct{}

func (AroundTheBoard) Config() game.ModeConfig {
	return game.ModeConfig{
		ID:            game.AroundTheBoard,
		Name:          "Around the Board",
		Rules:         "Hit 1 to 20 and then the bull in order. Any segment of the current number counts. Fewest darts wins.",
		Input:         game.InputHits,
		LowerIsBetter: true,
	}
}

func (AroundTheBoard) GenerateTargets(game.Options, *rand.Rand) []game.Target {
	return append(numbers(1, 20), game.TargetBull)
}

func (AroundTheBoard) InitPlayer(p *game.Player, _ game.Options, _ []game.Target) {
	p.TargetIndex = 0
	p.DartsThrown = 0
	p.Score = 0
	p.Finished = false
}

func currentTarget(s *game.Session, p *game.Player) game.Target {
	if p.TargetIndex >= len(s.Targets) {
		return ""
	}
	return s.Targets[p.TargetIndex]
}

func (AroundTheBoard) HandleInput(s *game.Session, p *game.Player, in game.Input) game.TurnResult {
	target := currentTarget(s, p)
	if in.Signal {
		// aggregate entry counts as a full turn of darts
		p.DartsThrown += game.MaxDarts
		p.TargetIndex = min(p.TargetIndex+in.Hits, len(s.Targets))
		p.Score = p.TargetIndex
		s.CloseTurn(p, game.Turn{Target: target, Score: in.Hits, Hits: in.Hits})
		return aroundNext(s, p)
	}

	t := in.Throw
	t.Points = 0
	p.DartsThrown++
	if onNumber(t, target) {
		t.Points = 1
		p.TargetIndex++
		p.Score = p.TargetIndex
	}
	s.AddDart(t)

	if p.TargetIndex >= len(s.Targets) || s.TurnFull() {
		hits := hitCount(s.TempDarts)
		start := s.Targets[p.TargetIndex-hits]
		s.CloseTurn(p, game.Turn{Target: start, Score: hits, Hits: hits})
		return aroundNext(s, p)
	}
	return game.Continue()
}

func aroundNext(s *game.Session, p *game.Player) game.TurnResult {
	if p.TargetIndex < len(s.Targets) {
		return game.NextTurn()
	}
	p.Finished = true
	if s.AllFinished() {
		return game.TurnResult{Action: game.ActionFinishGame}
	}
	return game.NextTurn().WithOverlay(fmt.Sprintf("%s DONE IN %d", p.Name, p.DartsThrown), "finished")
}

func (AroundTheBoard) ResultData(s *game.Session, p *game.Player) game.ResultSummary {
	r := game.NewSummary(s, p)
	r.Score = p.DartsThrown
	if !p.Finished {
		// unfinished players rank behind every finisher
		r.Score = p.DartsThrown + (len(s.Targets)-p.TargetIndex)*1000
	}
	r.Add("darts", "Darts thrown", float64(p.DartsThrown))
	r.Add("progress", "Targets hit", float64(p.TargetIndex))
	r.Add("hit_rate", "Hit rate", game.Ratio(float64(p.TargetIndex), float64(p.DartsThrown)))
	r.Add("darts_per_target", "Darts per target", game.Ratio(float64(p.DartsThrown), float64(p.TargetIndex)))
	r.Series = series(p)
	return r
}

func (AroundTheBoard) WinMessage(s *game.Session, winner *game.Player, _ game.TurnResult) game.WinMessage {
	darts := 0
	if winner != nil {
		darts = winner.DartsThrown
	}
	return finishMessage(s, winner, "darts", darts)
}
