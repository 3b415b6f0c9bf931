package game

import (
	"fmt"

	"dartscorer/internal/dart"
)

type Stat struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

type Distribution struct {
	Singles int `json:"singles"`
	Doubles int `json:"doubles"`
	Triples int `json:"triples"`
	Bulls   int `json:"bulls"`
	Misses  int `json:"misses"`
}

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ResultSummary is the per-player stats view shown at the end of a session
// and persisted alongside it.
type ResultSummary struct {
	PlayerID     string         `json:"playerId"`
	Name         string         `json:"name"`
	GameID       GameID         `json:"gameId"`
	Score        int            `json:"score"`
	Winner       bool           `json:"winner"`
	Darts        int            `json:"darts"`
	Stats        []Stat         `json:"stats"`
	Distribution Distribution   `json:"distribution"`
	Heatmap      map[string]int `json:"heatmap"`
	Series       []Point        `json:"series,omitempty"`
}

// Stat looks up a stat by key.
func (r ResultSummary) Stat(key string) (float64, bool) {
	for _, s := range r.Stats {
		if s.Key == key {
			return s.Value, true
		}
	}
	return 0, false
}

func (r *ResultSummary) Add(key, label string, v float64) {
	display := fmt.Sprintf("%.0f", v)
	if v != float64(int(v)) {
		display = fmt.Sprintf("%.2f", v)
	}
	r.Stats = append(r.Stats, Stat{Key: key, Label: label, Value: v, Display: display})
}

// NewSummary fills in the fields every mode reports the same way: identity,
// dart distribution and the per-segment heatmap across all of p's turns.
func NewSummary(s *Session, p *Player) ResultSummary {
	r := ResultSummary{
		PlayerID: p.ID,
		Name:     p.Name,
		GameID:   s.GameID,
		Winner:   s.Winner != "" && s.Winner == p.ID,
		Heatmap:  map[string]int{},
	}
	for _, t := range p.Turns {
		for _, d := range t.Darts {
			r.Darts++
			tally(&r.Distribution, d)
			r.Heatmap[d.Segment]++
		}
	}
	return r
}

func tally(dist *Distribution, d dart.Throw) {
	switch {
	case d.IsMiss:
		dist.Misses++
		return
	case d.IsTriple():
		dist.Triples++
	case d.IsDouble():
		dist.Doubles++
	default:
		dist.Singles++
	}
	if d.IsBull() {
		dist.Bulls++
	}
}

// Ratio divides safely.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
