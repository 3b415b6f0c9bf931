package modes

import (
	"fmt"
	"math/rand/v2"

	"dartscorer/internal/dart"
	"dartscorer/internal/game"
)

// cricketNumbers are the seven cricket targets.
var cricketNumbers = []int{20, 19, 18, 17, 16, 15, dart.Bull}

const marksToClose = 3

type Cricket struct{}

func (Cricket) Config() game.ModeConfig {
	return game.ModeConfig{
		ID:           game.Cricket,
		Name:         "Cricket",
		Configurable: true,
		Rules:        "Close 20 to 15 and the bull with three marks each. Marks past three score the target's value while an opponent still has it open. Close everything with the highest score to win.",
		Input:        game.InputThrows,
	}
}

func (Cricket) GenerateTargets(game.Options, *rand.Rand) []game.Target {
	out := make([]game.Target, 0, len(cricketNumbers))
	for _, n := range cricketNumbers {
		out = append(out, game.NumberTarget(n))
	}
	return out
}

func (Cricket) InitPlayer(p *game.Player, _ game.Options, _ []game.Target) {
	p.Score = 0
	p.Finished = false
	p.Marks = make(map[int]int, len(cricketNumbers))
	for _, n := range cricketNumbers {
		p.Marks[n] = 0
	}
}

func isCricketNumber(n int) bool {
	for _, c := range cricketNumbers {
		if c == n {
			return true
		}
	}
	return false
}

func (Cricket) HandleInput(s *game.Session, p *game.Player, in game.Input) game.TurnResult {
	t := in.Throw
	t.Points = 0
	res := game.Continue()

	if !t.IsMiss && isCricketNumber(t.Base) {
		before := p.Marks[t.Base]
		total := before + t.Multiplier
		if total > marksToClose {
			surplus := total - max(before, marksToClose)
			if cricketScores(s, p, t.Base) {
				t.Points = surplus * t.Base
			}
		}
		p.Marks[t.Base] = min(total, marksToClose)
		if before < marksToClose && total >= marksToClose {
			res = res.WithOverlay(fmt.Sprintf("%s CLOSED", game.NumberTarget(t.Base)), "closed")
		}
	}
	p.Score += t.Points
	s.AddDart(t)

	if cricketClosedOut(s, p) {
		closeCricketTurn(s, p, true)
		return game.TurnResult{Action: game.ActionWinMatch}.WithOverlay("GAME SHOT", "match-won")
	}
	if !s.TurnFull() {
		return res
	}
	closeCricketTurn(s, p, false)
	if s.FinalRound(s.Options.RoundLimit) {
		return game.TurnResult{Action: game.ActionFinishGame}
	}
	next := game.NextTurn()
	next.Overlay = res.Overlay
	return next
}

// cricketScores reports whether surplus marks on n score for p: always in
// solo play, otherwise while some opponent has not closed n.
func cricketScores(s *game.Session, p *game.Player, n int) bool {
	opponents := s.Opponents(p)
	if len(opponents) == 0 {
		return true
	}
	for _, o := range opponents {
		if o.Marks[n] < marksToClose {
			return true
		}
	}
	return false
}

func allClosed(p *game.Player) bool {
	for _, n := range cricketNumbers {
		if p.Marks[n] < marksToClose {
			return false
		}
	}
	return true
}

func cricketClosedOut(s *game.Session, p *game.Player) bool {
	if !allClosed(p) {
		return false
	}
	for _, o := range s.Opponents(p) {
		if o.Score > p.Score {
			return false
		}
	}
	return true
}

func closeCricketTurn(s *game.Session, p *game.Player, finish bool) {
	snapshot := make(map[int]int, len(p.Marks))
	for k, v := range p.Marks {
		snapshot[k] = v
	}
	marks := 0
	for _, d := range s.TempDarts {
		if !d.IsMiss && isCricketNumber(d.Base) {
			marks += d.Multiplier
		}
	}
	s.CloseTurn(p, game.Turn{
		Score:     turnPoints(s.TempDarts),
		Marks:     snapshot,
		MarksHit:  marks,
		LegFinish: finish,
	})
}

func totalMarks(p *game.Player) int {
	n := 0
	for _, m := range p.Marks {
		n += m
	}
	return n
}

// Leader ranks by score, then by marks.
func (Cricket) Leader(s *game.Session) *game.Player {
	var best *game.Player
	for _, p := range s.Players {
		if best == nil || p.Score > best.Score ||
			(p.Score == best.Score && totalMarks(p) > totalMarks(best)) {
			best = p
		}
	}
	return best
}

func (Cricket) ResultData(s *game.Session, p *game.Player) game.ResultSummary {
	r := game.NewSummary(s, p)
	r.Score = p.Score
	marks := 0
	for _, t := range p.Turns {
		marks += t.MarksHit
	}
	r.Add("mpr", "Marks per round", game.Ratio(float64(marks), float64(len(p.Turns))))
	r.Add("marks", "Marks", float64(marks))
	r.Add("points", "Points", float64(p.Score))
	closed := 0
	for _, n := range cricketNumbers {
		if p.Marks[n] >= marksToClose {
			closed++
		}
	}
	r.Add("closed", "Targets closed", float64(closed))
	r.Series = make([]game.Point, 0, len(p.Turns))
	for i, t := range p.Turns {
		r.Series = append(r.Series, game.Point{Label: fmt.Sprintf("%d", i+1), Value: float64(t.MarksHit)})
	}
	return r
}

func (Cricket) WinMessage(s *game.Session, winner *game.Player, _ game.TurnResult) game.WinMessage {
	return finishMessage(s, winner, "points", scoreOf(winner))
}

func scoreOf(p *game.Player) int {
	if p == nil {
		return 0
	}
	return p.Score
}
