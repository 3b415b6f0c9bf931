package modes

import (
	"fmt"
	"math/rand/v2"

	"dartscorer/internal/game"
)

// LegsPerSet is the number of legs that win a set in sets play.
const LegsPerSet = 3

type X01 struct{}

func (X01) Config() game.ModeConfig {
	return game.ModeConfig{
		ID:            game.X01,
		Name:          "X01",
		Configurable:  true,
		Rules:         "Count down from the start score to exactly zero. Going below zero busts the turn. With double-out the last dart must be a double and 1 cannot be finished; with double-in scoring starts at the first double.",
		Input:         game.InputThrows,
		LowerIsBetter: true,
		Defaults:      game.Options{StartScore: 501, DoubleOut: true, BestOf: 1},
	}
}

func (X01) GenerateTargets(game.Options, *rand.Rand) []game.Target { return nil }

func (X01) InitPlayer(p *game.Player, opts game.Options, _ []game.Target) {
	start := orDefault(opts.StartScore, 501)
	p.Residual = start
	p.TurnStartResidual = start
	p.HasDoubledIn = !opts.DoubleIn
	p.TurnStartDoubledIn = p.HasDoubledIn
	p.Score = 0
	p.Finished = false
}

func (X01) HandleInput(s *game.Session, p *game.Player, in game.Input) game.TurnResult {
	opts := s.Options
	if s.TurnStart() {
		p.TurnStartResidual = p.Residual
		p.TurnStartDoubledIn = p.HasDoubledIn
	}

	t := in.Throw
	t.Points = t.Value()
	if !p.HasDoubledIn {
		if t.IsDouble() {
			p.HasDoubledIn = true
		} else {
			t.Points = 0
		}
	}
	s.AddDart(t)

	next := p.Residual - t.Points
	if finishBust(next, t, opts.DoubleOut) {
		p.Residual = p.TurnStartResidual
		p.HasDoubledIn = p.TurnStartDoubledIn
		s.CloseTurn(p, game.Turn{Bust: true})
		return game.TurnResult{Action: game.ActionBust}.WithOverlay("BUST", "bust")
	}
	p.Residual = next

	if next == 0 {
		return legWon(s, p)
	}
	if s.TurnFull() {
		score := p.TurnStartResidual - p.Residual
		s.CloseTurn(p, game.Turn{Score: score})
		return scoreOverlay(game.NextTurn(), score)
	}
	return game.Continue()
}

func legWon(s *game.Session, p *game.Player) game.TurnResult {
	opts := s.Options
	checkout := p.TurnStartResidual
	s.CloseTurn(p, game.Turn{Score: checkout, LegFinish: true, Checkout: true})
	p.LegsWon++

	needed := legsNeeded(opts.BestOf)
	won := game.TurnResult{Action: game.ActionWinLeg}
	if opts.Sets {
		if p.LegsWon >= LegsPerSet {
			p.SetsWon++
			for _, o := range s.Players {
				o.LegsWon = 0
			}
			if p.SetsWon >= needed {
				won.Action = game.ActionWinMatch
			}
		}
	} else if p.LegsWon >= needed {
		won.Action = game.ActionWinMatch
	}
	return won.WithOverlay(fmt.Sprintf("CHECKOUT %d", checkout), "checkout")
}

// legsNeeded is the majority of a best-of-n match.
func legsNeeded(bestOf int) int {
	bestOf = orDefault(bestOf, 1)
	return (bestOf + 1) / 2
}

func scoreOverlay(r game.TurnResult, score int) game.TurnResult {
	switch {
	case score == 180:
		return r.WithOverlay("180!", "180")
	case score >= 140:
		return r.WithOverlay(fmt.Sprintf("%d", score), "ton-forty")
	case score >= 100:
		return r.WithOverlay(fmt.Sprintf("%d", score), "ton")
	}
	return r
}

func (X01) ResultData(s *game.Session, p *game.Player) game.ResultSummary {
	r := game.NewSummary(s, p)
	r.Score = p.Residual

	var scored, first9, first9Darts, best, tons, ton40s, maxes int
	legDarts := map[int]int{}
	for _, t := range p.Turns {
		if !t.Bust {
			scored += t.Score
		}
		d := len(t.Darts)
		if legDarts[t.Leg] < 9 {
			first9Darts += d
			if !t.Bust {
				first9 += t.Score
			}
		}
		legDarts[t.Leg] += d
		if t.Checkout && t.Score > best {
			best = t.Score
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
	r.Add("average", "3-dart average", game.Ratio(float64(scored)*3, float64(r.Darts)))
	r.Add("first9", "First 9 average", game.Ratio(float64(first9)*3, float64(first9Darts)))
	r.Add("highest_checkout", "Highest checkout", float64(best))
	r.Add("100s", "100+", float64(tons))
	r.Add("140s", "140+", float64(ton40s))
	r.Add("180s", "180s", float64(maxes))
	r.Add("legs", "Legs won", float64(p.LegsWon))
	if s.Options.Sets {
		r.Add("sets", "Sets won", float64(p.SetsWon))
	}
	r.Series = series(p)
	return r
}

func (X01) WinMessage(s *game.Session, winner *game.Player, res game.TurnResult) game.WinMessage {
	if winner == nil {
		return game.WinMessage{Title: "Game over", NextLabel: "Play again"}
	}
	checkout := 0
	if n := len(winner.Turns); n > 0 {
		checkout = winner.Turns[n-1].Score
	}
	if res.Action == game.ActionWinLeg {
		body := fmt.Sprintf("%s checks out %d", winner.Name, checkout)
		if s.Options.Sets {
			body += fmt.Sprintf(" (legs %d, sets %d)", winner.LegsWon, winner.SetsWon)
		}
		return game.WinMessage{Title: "Leg won", Body: body, NextLabel: "Next leg"}
	}
	return game.WinMessage{
		Title:     "Match won",
		Body:      fmt.Sprintf("%s wins the match with a %d checkout", winner.Name, checkout),
		NextLabel: "Rematch",
	}
}
