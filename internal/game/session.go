package game

import "dartscorer/internal/dart"

// MaxDarts is the number of darts in a full turn.
const MaxDarts = 3

func (s *Session) Current() *Player {
	if s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players) {
		return nil
	}
	return s.Players[s.CurrentPlayer]
}

func (s *Session) Player(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) Opponents(p *Player) []*Player {
	out := make([]*Player, 0, len(s.Players))
	for _, o := range s.Players {
		if o != p {
			out = append(out, o)
		}
	}
	return out
}

func (s *Session) AllFinished() bool {
	for _, p := range s.Players {
		if !p.Finished {
			return false
		}
	}
	return true
}

// RoundTarget is the target of the current round for round-driven modes.
func (s *Session) RoundTarget() (Target, bool) {
	if s.Round < 0 || s.Round >= len(s.Targets) {
		return "", false
	}
	return s.Targets[s.Round], true
}

// TurnStart reports whether no dart of the current turn has been thrown.
func (s *Session) TurnStart() bool { return len(s.TempDarts) == 0 }

// TurnFull reports whether the throw buffer holds a complete turn.
func (s *Session) TurnFull() bool { return len(s.TempDarts) >= MaxDarts }

// AddDart appends to the in-progress buffer. The buffer never grows past a
// full turn.
func (s *Session) AddDart(t dart.Throw) {
	if s.TurnFull() {
		return
	}
	s.TempDarts = append(s.TempDarts, t)
}

// CloseTurn records the in-progress buffer as a finished turn of p.
func (s *Session) CloseTurn(p *Player, t Turn) Turn {
	t.Round = s.Round
	t.Leg = s.Leg
	if t.Darts == nil {
		t.Darts = make([]dart.Throw, len(s.TempDarts))
		copy(t.Darts, s.TempDarts)
	}
	p.Turns = append(p.Turns, t)
	return t
}

// RoundComplete reports whether every player still in play has closed a
// turn in the current round.
func (s *Session) RoundComplete() bool {
	for _, p := range s.Players {
		if p.Finished {
			continue
		}
		if len(p.LegTurns(s.Leg)) < s.Round+1 {
			return false
		}
	}
	return true
}

// FinalRound reports whether the current round is the last of total rounds
// and every active player has thrown in it.
func (s *Session) FinalRound(total int) bool {
	return total > 0 && s.Round+1 >= total && s.RoundComplete()
}

// NextActive returns the index of the next unfinished player after the
// current one and whether the rotation wrapped past the starting player.
// It returns -1 when everybody has finished.
func (s *Session) NextActive() (int, bool) {
	n := len(s.Players)
	if n == 0 {
		return -1, false
	}
	pos := func(i int) int { return (i - s.StartingPlayer + n) % n }
	for step := 1; step <= n; step++ {
		i := (s.CurrentPlayer + step) % n
		if s.Players[i].Finished {
			continue
		}
		return i, pos(i) <= pos(s.CurrentPlayer)
	}
	return -1, false
}

// Clone returns a deep copy suitable for handing to readers outside the
// controller.
func (s *Session) Clone() *Session {
	c := *s
	c.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.Clone()
	}
	c.Targets = append([]Target(nil), s.Targets...)
	c.TempDarts = append([]dart.Throw(nil), s.TempDarts...)
	c.Options.Sequence = append([]Target(nil), s.Options.Sequence...)
	return &c
}
