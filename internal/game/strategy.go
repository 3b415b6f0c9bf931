package game

import "math/rand/v2"

// Modality says how a mode takes input.
type Modality string

const (
	InputThrows Modality = "throws"
	InputHits   Modality = "hits"
)

// ModeConfig is the descriptive metadata of a game mode.
type ModeConfig struct {
	ID            GameID   `json:"id"`
	Name          string   `json:"name"`
	Configurable  bool     `json:"configurable"`
	Rules         string   `json:"rules"`
	Input         Modality `json:"input"`
	LowerIsBetter bool     `json:"lowerIsBetter,omitempty"`
	Defaults      Options  `json:"defaults"`
}

// AcceptsSignals reports whether the mode takes hit-count signals.
func (c ModeConfig) AcceptsSignals() bool { return c.Input == InputHits }

// Strategy is the contract every game mode implements. All mutable state
// lives on the Session and its Players; strategies hold none of their own.
type Strategy interface {
	Config() ModeConfig
	GenerateTargets(opts Options, rng *rand.Rand) []Target
	InitPlayer(p *Player, opts Options, targets []Target)
	HandleInput(s *Session, p *Player, in Input) TurnResult
	ResultData(s *Session, p *Player) ResultSummary
	WinMessage(s *Session, winner *Player, r TurnResult) WinMessage
}
