package modes

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"dartscorer/internal/game"
)

const (
	DifficultyEasy     = "easy"
	DifficultyStandard = "standard"
	DifficultyHard     = "hard"

	checkoutDartBonus = 5
)

// bogeys are the values between 2 and 170 that no three darts can finish on
// a double.
var bogeys = []int{159, 162, 163, 165, 166, 168, 169}

var difficultyRange = map[string][2]int{
	DifficultyEasy:     {40, 80},
	DifficultyStandard: {60, 120},
	DifficultyHard:     {100, 170},
}

// CheckoutPool returns the finishable values for a difficulty. Unknown
// difficulties use the standard range; an empty range falls back to the
// full pool.
func CheckoutPool(difficulty string) []int {
	var full []int
	for v := 2; v <= 170; v++ {
		if !slices.Contains(bogeys, v) {
			full = append(full, v)
		}
	}
	rng, ok := difficultyRange[difficulty]
	if !ok {
		rng = difficultyRange[DifficultyStandard]
	}
	var out []int
	for _, v := range full {
		if v >= rng[0] && v <= rng[1] {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return full
	}
	return out
}

type CheckoutChallenge struct{}

func (CheckoutChallenge) Config() game.ModeConfig {
	return game.ModeConfig{
		ID:           game.CheckoutChallenge,
		Name:         "Checkout Challenge",
		Configurable: true,
		Rules:        "Each round shows a finish. Check it out with three darts, ending on a double. A finish scores its value plus 5 for every dart left over. Leaving 1 or going below zero busts.",
		Input:        game.InputThrows,
		Defaults:     game.Options{Difficulty: DifficultyStandard, Rounds: 10, DoubleOut: true},
	}
}

func (CheckoutChallenge) GenerateTargets(opts game.Options, rng *rand.Rand) []game.Target {
	pool := CheckoutPool(opts.Difficulty)
	rounds := orDefault(opts.Rounds, 10)
	out := make([]game.Target, rounds)
	for i := range out {
		out[i] = game.Target(strconv.Itoa(pool[rng.IntN(len(pool))]))
	}
	return out
}

func (CheckoutChallenge) InitPlayer(p *game.Player, _ game.Options, targets []game.Target) {
	p.Score = 0
	p.Successes = 0
	p.Finished = false
	p.Residual = 0
	if len(targets) > 0 {
		p.Residual, _ = targets[0].Number()
	}
	p.TurnStartResidual = p.Residual
}

func (CheckoutChallenge) HandleInput(s *game.Session, p *game.Player, in game.Input) game.TurnResult {
	target, _ := s.RoundTarget()
	value, _ := target.Number()
	if s.TurnStart() {
		p.Residual = value
		p.TurnStartResidual = value
	}

	t := in.Throw
	t.Points = t.Value()
	s.AddDart(t)
	next := p.Residual - t.Points

	if next < 0 || next == 1 || (next == 0 && s.Options.DoubleOut && !t.IsDouble()) {
		p.Residual = p.TurnStartResidual
		s.CloseTurn(p, game.Turn{Target: target, Bust: true})
		res := game.TurnResult{Action: game.ActionBust}.WithOverlay("BUST", "bust")
		if s.FinalRound(len(s.Targets)) {
			res.Action = game.ActionFinishGame
		}
		return res
	}
	p.Residual = next

	if next == 0 {
		reward := value + checkoutDartBonus*(game.MaxDarts-len(s.TempDarts))
		p.Score += reward
		p.Successes++
		s.CloseTurn(p, game.Turn{Target: target, Score: reward, Checkout: true})
		res := game.NextTurn().WithOverlay(fmt.Sprintf("CHECKOUT %d +%d", value, reward), "checkout")
		if s.FinalRound(len(s.Targets)) {
			res.Action = game.ActionFinishGame
		}
		return res
	}

	if !s.TurnFull() {
		return game.Continue()
	}
	s.CloseTurn(p, game.Turn{Target: target})
	if s.FinalRound(len(s.Targets)) {
		return game.TurnResult{Action: game.ActionFinishGame}
	}
	return game.NextTurn()
}

func (CheckoutChallenge) ResultData(s *game.Session, p *game.Player) game.ResultSummary {
	r := game.NewSummary(s, p)
	r.Score = p.Score
	attempts, busts, best := 0, 0, 0
	for _, t := range p.Turns {
		attempts++
		if t.Bust {
			busts++
		}
		if t.Checkout {
			if v, ok := t.Target.Number(); ok && v > best {
				best = v
			}
		}
	}
	r.Add("points", "Points", float64(p.Score))
	r.Add("checkouts", "Checkouts", float64(p.Successes))
	r.Add("checkout_rate", "Checkout rate", game.Ratio(float64(p.Successes), float64(attempts)))
	r.Add("busts", "Busts", float64(busts))
	r.Add("highest_checkout", "Highest checkout", float64(best))
	r.Series = series(p)
	return r
}

func (CheckoutChallenge) WinMessage(s *game.Session, winner *game.Player, _ game.TurnResult) game.WinMessage {
	return finishMessage(s, winner, "points", scoreOf(winner))
}
