// Package modes implements the rule strategies for every supported game.
package modes

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"dartscorer/internal/dart"
	"dartscorer/internal/game"
)

var ErrUnknownGame = errors.New("unknown game")

// Lookup returns the strategy for a game id.
func Lookup(id game.GameID) (game.Strategy, error) {
	switch id {
	case game.X01:
		return X01{}, nil
	case game.Cricket:
		return Cricket{}, nil
	case game.Shanghai:
		return Shanghai{}, nil
	case game.AroundTheBoard:
		return AroundTheBoard{}, nil
	case game.Bobs27:
		return Bobs27{}, nil
	case game.HalveIt:
		return HalveIt{}, nil
	case game.CheckoutChallenge:
		return CheckoutChallenge{}, nil
	case game.ScoringDrill:
		return ScoringDrill{}, nil
	case game.SingleTraining:
		return SingleTraining{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGame, id)
}

// All lists every strategy in menu order.
func All() []game.Strategy {
	return []game.Strategy{
		X01{}, Cricket{}, Shanghai{}, AroundTheBoard{}, Bobs27{},
		HalveIt{}, CheckoutChallenge{}, ScoringDrill{}, SingleTraining{},
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// numbers returns from..to inclusive as targets.
func numbers(from, to int) []game.Target {
	out := make([]game.Target, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, game.NumberTarget(n))
	}
	return out
}

// ordered applies an ascending, descending or random order to targets
// given in ascending order.
func ordered(targets []game.Target, order string, rng *rand.Rand) []game.Target {
	switch order {
	case game.OrderDescending:
		for i, j := 0, len(targets)-1; i < j; i, j = i+1, j-1 {
			targets[i], targets[j] = targets[j], targets[i]
		}
	case game.OrderRandom:
		if rng != nil {
			game.Shuffle(rng, targets)
		}
	}
	return targets
}

// onNumber reports whether t landed on the numeric or bull target.
func onNumber(t dart.Throw, target game.Target) bool {
	n, ok := target.Number()
	return ok && !t.IsMiss && t.Base == n
}

// finishBust applies the shared countdown bust rule.
func finishBust(next int, t dart.Throw, doubleOut bool) bool {
	switch {
	case next < 0:
		return true
	case doubleOut && next == 1:
		return true
	case doubleOut && next == 0 && !t.IsDouble():
		return true
	}
	return false
}

func turnPoints(darts []dart.Throw) int {
	sum := 0
	for _, d := range darts {
		sum += d.Points
	}
	return sum
}

func series(p *game.Player) []game.Point {
	out := make([]game.Point, 0, len(p.Turns))
	for i, t := range p.Turns {
		out = append(out, game.Point{Label: fmt.Sprintf("%d", i+1), Value: float64(t.Score)})
	}
	return out
}

func hitCount(darts []dart.Throw) int {
	n := 0
	for _, d := range darts {
		if d.Points > 0 {
			n++
		}
	}
	return n
}

func finishMessage(s *game.Session, winner *game.Player, unit string, score int) game.WinMessage {
	if winner == nil {
		return game.WinMessage{Title: "Game over", Body: "No winner", NextLabel: "Play again"}
	}
	body := fmt.Sprintf("%s wins with %d %s", winner.Name, score, unit)
	if len(s.Players) == 1 {
		body = fmt.Sprintf("%s finished with %d %s", winner.Name, score, unit)
	}
	return game.WinMessage{Title: "Game over", Body: body, NextLabel: "Play again"}
}
