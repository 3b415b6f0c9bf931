package modes

import (
	"math/rand/v2"

	"dartscorer/internal/dart"
	"dartscorer/internal/game"
)

const halveItStart = 40

type HalveIt struct{}

func (HalveIt) Config() game.ModeConfig {
	return game.ModeConfig{
		ID:           game.HalveIt,
		Name:         "Halve-It",
		Configurable: true,
		Rules:        "Start on 40. Each round names a target: a number, any double, any triple, the bull or anything at all. Every dart on the target adds its value. Miss it with all three darts and your score is halved.",
		Input:        game.InputThrows,
		Defaults:     game.Options{Order: game.OrderAscending, UseSpecials: true},
	}
}

// GenerateTargets builds the round sequence. An explicit sequence wins;
// otherwise 15 to 20 are ordered and interleaved with the specials.
func (HalveIt) GenerateTargets(opts game.Options, rng *rand.Rand) []game.Target {
	if len(opts.Sequence) > 0 {
		return append([]game.Target(nil), opts.Sequence...)
	}
	n := ordered(numbers(15, 20), opts.Order, rng)
	if !opts.UseSpecials {
		return append(n, game.TargetBull)
	}
	return []game.Target{
		n[0], n[1], game.TargetAnyDouble,
		n[2], n[3], game.TargetAnyTriple,
		n[4], n[5], game.TargetBull, game.TargetAll,
	}
}

func (HalveIt) InitPlayer(p *game.Player, _ game.Options, _ []game.Target) {
	p.Score = halveItStart
	p.Halvings = 0
	p.Finished = false
}

// qualifies reports whether t satisfies a Halve-It target.
func qualifies(t dart.Throw, target game.Target) bool {
	if t.IsMiss {
		return false
	}
	switch target {
	case game.TargetAnyDouble:
		return t.IsDouble()
	case game.TargetAnyTriple:
		return t.IsTriple()
	case game.TargetAll:
		return true
	}
	return onNumber(t, target)
}

func (HalveIt) HandleInput(s *game.Session, p *game.Player, in game.Input) game.TurnResult {
	target, _ := s.RoundTarget()
	t := in.Throw
	t.Points = 0
	if qualifies(t, target) {
		t.Points = t.Value()
	}
	p.Score += t.Points
	s.AddDart(t)

	if !s.TurnFull() {
		return game.Continue()
	}

	res := game.NextTurn()
	hits := hitCount(s.TempDarts)
	score := turnPoints(s.TempDarts)
	if hits == 0 {
		before := p.Score
		p.Score /= 2
		p.Halvings++
		score = p.Score - before
		res = res.WithOverlay("HALVED", "halved")
	}
	s.CloseTurn(p, game.Turn{Target: target, Score: score, Hits: hits})
	if s.FinalRound(len(s.Targets)) {
		res.Action = game.ActionFinishGame
	}
	return res
}

func (HalveIt) ResultData(s *game.Session, p *game.Player) game.ResultSummary {
	r := game.NewSummary(s, p)
	r.Score = p.Score
	hits, rounds := 0, 0
	for _, t := range p.Turns {
		hits += t.Hits
		if t.Hits > 0 {
			rounds++
		}
	}
	r.Add("points", "Points", float64(p.Score))
	r.Add("halvings", "Halvings", float64(p.Halvings))
	r.Add("hit_rate", "Hit rate", game.Ratio(float64(hits), float64(r.Darts)))
	r.Add("rounds_hit", "Rounds hit", float64(rounds))

	r.Series = make([]game.Point, 0, len(p.Turns))
	running := halveItStart
	for _, t := range p.Turns {
		running += t.Score
		r.Series = append(r.Series, game.Point{Label: string(t.Target), Value: float64(running)})
	}
	return r
}

func (HalveIt) WinMessage(s *game.Session, winner *game.Player, _ game.TurnResult) game.WinMessage {
	return finishMessage(s, winner, "points", scoreOf(winner))
}
