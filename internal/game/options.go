package game

// IsZero reports whether no option was set.
func (o Options) IsZero() bool {
	return o.StartScore == 0 && !o.DoubleIn && !o.DoubleOut && o.BestOf == 0 && !o.Sets &&
		o.RoundLimit == 0 && o.Rounds == 0 && o.Order == "" && o.Difficulty == "" &&
		o.DartLimit == 0 && !o.UseSpecials && len(o.Sequence) == 0 && o.Seed == 0
}

// WithDefaults fills unset numeric and string fields from d. Boolean flags
// are only taken from d when o is entirely empty, so a caller can switch a
// default flag off by passing any explicit option.
func (o Options) WithDefaults(d Options) Options {
	if o.IsZero() {
		out := d
		out.Sequence = append([]Target(nil), d.Sequence...)
		return out
	}
	if o.StartScore == 0 {
		o.StartScore = d.StartScore
	}
	if o.BestOf == 0 {
		o.BestOf = d.BestOf
	}
	if o.RoundLimit == 0 {
		o.RoundLimit = d.RoundLimit
	}
	if o.Rounds == 0 {
		o.Rounds = d.Rounds
	}
	if o.Order == "" {
		o.Order = d.Order
	}
	if o.Difficulty == "" {
		o.Difficulty = d.Difficulty
	}
	if o.DartLimit == 0 {
		o.DartLimit = d.DartLimit
	}
	return o
}

// Ranker is implemented by modes whose final standings need more than the
// summary score to decide.
type Ranker interface {
	Leader(s *Session) *Player
}

// Leader returns the player ranked first once a session is finished.
func Leader(st Strategy, s *Session) *Player {
	if r, ok := st.(Ranker); ok {
		return r.Leader(s)
	}
	lower := st.Config().LowerIsBetter
	var best *Player
	var bestScore int
	for _, p := range s.Players {
		sc := st.ResultData(s, p).Score
		if best == nil || (lower && sc < bestScore) || (!lower && sc > bestScore) {
			best, bestScore = p, sc
		}
	}
	return best
}
