package engine

import (
	"context"
	"time"

	"dartscorer/internal/dart"
	"dartscorer/internal/game"
)

// Update kinds pushed to the Notifier.
const (
	UpdateSessionReady = "session-ready"
	UpdateThrow        = "throw"
	UpdateTurn         = "turn"
	UpdateLeg          = "leg"
	UpdateMatchOver    = "match-over"
	UpdateUndo         = "undo"
)

// Update is a read-only view of the session after a state change.
type Update struct {
	Kind    string           `json:"kind"`
	Session *game.Session    `json:"session"`
	Result  *game.TurnResult `json:"result,omitempty"`
	Win     *game.WinMessage `json:"win,omitempty"`
}

// Notifier receives every state change, typically for rendering.
type Notifier interface {
	Publish(Update)
}

// EventSink receives ambience category tags such as "hit" or "180". It
// must not block.
type EventSink interface {
	Emit(category string)
}

// Record is a finished session handed to persistence.
type Record struct {
	Session   *game.Session
	Summaries []game.ResultSummary
}

// Sink persists finished sessions. Calls are fire-and-forget.
type Sink interface {
	SaveSession(ctx context.Context, rec Record) error
}

// ThrowEvent is one accepted dart or hit signal.
type ThrowEvent struct {
	SessionID string
	GameID    game.GameID
	PlayerID  string
	Leg       int
	Round     int
	Dart      int
	Throw     dart.Throw
	Hits      int
	Signal    bool
	At        time.Time
}

// ThrowRecorder receives every accepted input. It must not block.
type ThrowRecorder interface {
	Record(ThrowEvent)
}

// Metrics counts controller activity.
type Metrics interface {
	ThrowAccepted(id game.GameID, outcome string)
	TurnEnded(id game.GameID, action game.Action)
	SessionStarted(id game.GameID)
	SessionFinished(id game.GameID)
}

// Clock abstracts time for debounce checks.
type Clock interface {
	Now() time.Time
}

// Scheduler runs deferred transitions.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

type nopMetrics struct{}

func (nopMetrics) ThrowAccepted(game.GameID, string) {}
func (nopMetrics) TurnEnded(game.GameID, game.Action) {}
func (nopMetrics) SessionStarted(game.GameID) {}
func (nopMetrics) SessionFinished(game.GameID) {}
