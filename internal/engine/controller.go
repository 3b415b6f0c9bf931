// Package engine runs the turn state machine for one dartboard.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dartscorer/internal/dart"
	"dartscorer/internal/game"
	"dartscorer/internal/modes"
)

var (
	ErrNoPlayers       = errors.New("session needs at least one player")
	ErrDuplicatePlayer = errors.New("player listed twice")
	ErrUnknownGame     = modes.ErrUnknownGame
	ErrNoSession       = errors.New("no session")
	ErrPlayerNotInGame = errors.New("player not in session")
)

// Drop reasons reported on a rejected Step.
const (
	DropNoSession   = "no-session"
	DropOver        = "over"
	DropLocked      = "locked"
	DropDebounce    = "debounce"
	DropUnsupported = "signal-not-accepted"
)

const saveTimeout = 10 * time.Second

type Config struct {
	Debounce     time.Duration
	TurnDelay    time.Duration
	BustDelay    time.Duration
	LegDelay     time.Duration
	UndoCapacity int
}

func DefaultConfig() Config {
	return Config{
		Debounce:     150 * time.Millisecond,
		BustDelay:    1500 * time.Millisecond,
		LegDelay:     2500 * time.Millisecond,
		UndoCapacity: game.DefaultUndoCapacity,
	}
}

// Entrant is one roster entry for a new session.
type Entrant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Step reports what happened to one submitted input.
type Step struct {
	Accepted bool            `json:"accepted"`
	Reason   string          `json:"reason,omitempty"`
	Input    game.Input      `json:"-"`
	Result   game.TurnResult `json:"result"`
}

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }
func WithClock(cl Clock) Option { return func(c *Controller) { c.clock = cl } }
func WithScheduler(s Scheduler) Option { return func(c *Controller) { c.sched = s } }
func WithNotifier(n Notifier) Option { return func(c *Controller) { c.notifier = n } }
func WithEvents(e EventSink) Option { return func(c *Controller) { c.events = e } }
func WithSink(s Sink) Option { return func(c *Controller) { c.sink = s } }
func WithRecorder(r ThrowRecorder) Option { return func(c *Controller) { c.recorder = r } }
func WithMetrics(m Metrics) Option { return func(c *Controller) { c.metrics = m } }

// Controller owns the active session. All mutation of the session and its
// players happens under mu; collaborators are called after it is released.
type Controller struct {
	mu       sync.Mutex
	cfg      Config
	log      zerolog.Logger
	clock    Clock
	sched    Scheduler
	notifier Notifier
	events   EventSink
	sink     Sink
	recorder ThrowRecorder
	metrics  Metrics

	session   *game.Session
	strategy  game.Strategy
	history   *game.History
	locked    bool
	lastInput time.Time
	epoch     int

	lastGame   game.GameID
	lastRoster []Entrant
	lastOpts   game.Options

	out outbox
}

// outbox collects side effects produced under the lock.
type outbox struct {
	updates []Update
	events  []string
	throws  []ThrowEvent
	records []Record
}

func New(cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:     cfg,
		log:     zerolog.Nop(),
		clock:   systemClock{},
		sched:   timerScheduler{},
		metrics: nopMetrics{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// StartSession replaces any active session with a new one.
func (c *Controller) StartSession(id game.GameID, roster []Entrant, opts game.Options) error {
	if len(roster) == 0 {
		return ErrNoPlayers
	}
	st, err := modes.Lookup(id)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(roster))
	entrants := make([]Entrant, len(roster))
	for i, e := range roster {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Name == "" {
			e.Name = fmt.Sprintf("Player %d", i+1)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, e.ID)
		}
		seen[e.ID] = true
		entrants[i] = e
	}

	opts = opts.WithDefaults(st.Config().Defaults)
	s := &game.Session{
		ID:        uuid.NewString(),
		GameID:    id,
		Options:   opts,
		Targets:   st.GenerateTargets(opts, game.NewRNG(opts.Seed)),
		Status:    game.StatusRunning,
		State:     game.StateRunning,
		StartedAt: c.clock.Now(),
	}
	for _, e := range entrants {
		p := &game.Player{ID: e.ID, Name: e.Name}
		st.InitPlayer(p, opts, s.Targets)
		s.Players = append(s.Players, p)
	}

	c.mu.Lock()
	c.epoch++
	c.session = s
	c.strategy = st
	c.history = game.NewHistory(c.cfg.UndoCapacity)
	c.locked = false
	c.lastInput = time.Time{}
	c.lastGame, c.lastRoster, c.lastOpts = id, entrants, opts
	c.metrics.SessionStarted(id)
	c.publish(UpdateSessionReady, nil, nil)
	c.emit(UpdateSessionReady)
	out := c.drain()
	c.mu.Unlock()

	c.log.Info().Str("session", s.ID).Str("game", string(id)).Int("players", len(entrants)).Msg("session started")
	c.deliver(out)
	return nil
}

// Rematch starts the previous game again with the same roster and options.
func (c *Controller) Rematch() error {
	c.mu.Lock()
	id, roster, opts := c.lastGame, c.lastRoster, c.lastOpts
	c.mu.Unlock()
	if id == "" {
		return ErrNoSession
	}
	return c.StartSession(id, roster, opts)
}

// Submit drives one step of the state machine. raw may be a game.Input or
// anything dart.Normalize understands. Inputs arriving while locked,
// inside the debounce window or after the match are dropped.
func (c *Controller) Submit(raw any) Step {
	c.mu.Lock()
	step := c.submit(toInput(raw))
	out := c.drain()
	c.mu.Unlock()

	if !step.Accepted {
		c.log.Debug().Str("reason", step.Reason).Msg("input dropped")
	}
	c.deliver(out)
	return step
}

func toInput(raw any) game.Input {
	switch v := raw.(type) {
	case game.Input:
		if !v.Signal {
			v.Throw = dart.Normalize(v.Throw)
		}
		return v
	case *game.Input:
		if v != nil {
			return toInput(*v)
		}
	}
	return game.ThrowInput(dart.Normalize(raw))
}

func (c *Controller) submit(in game.Input) Step {
	s := c.session
	switch {
	case s == nil:
		return Step{Reason: DropNoSession}
	case s.Status == game.StatusOver:
		return Step{Reason: DropOver}
	case c.locked:
		return Step{Reason: DropLocked}
	case in.Signal && !c.strategy.Config().AcceptsSignals():
		return Step{Reason: DropUnsupported}
	}
	now := c.clock.Now()
	if !c.lastInput.IsZero() && now.Sub(c.lastInput) < c.cfg.Debounce {
		return Step{Reason: DropDebounce}
	}
	c.lastInput = now

	c.history.Push(s)
	p := s.Current()
	res := c.strategy.HandleInput(s, p, in)
	c.record(s, p, in, now)

	s.Animation = ""
	if res.Overlay != nil {
		s.Animation = res.Overlay.Category
		c.emit(res.Overlay.Category)
	}
	if res.Action.Ends() {
		s.TurnTotal++
		c.metrics.TurnEnded(s.GameID, res.Action)
	}

	switch res.Action {
	case game.ActionContinue:
		c.publish(UpdateThrow, &res, nil)
	case game.ActionNextTurn, game.ActionBust:
		delay := max(res.Delay, c.cfg.TurnDelay)
		if res.Action == game.ActionBust {
			delay = max(delay, c.cfg.BustDelay)
		}
		s.State = game.StateAwaitingNext
		c.publish(UpdateThrow, &res, nil)
		c.later(delay, c.advance)
	case game.ActionWinLeg:
		s.State = game.StateLegOver
		win := c.strategy.WinMessage(s, p, res)
		c.publish(UpdateThrow, &res, &win)
		c.emit("leg-won")
		c.later(max(res.Delay, c.cfg.LegDelay), c.resetLeg)
	case game.ActionWinMatch:
		c.finish(p, res)
	case game.ActionFinishGame:
		c.finish(game.Leader(c.strategy, s), res)
	}
	return Step{Accepted: true, Input: in, Result: res}
}

// record reports the input to the recorder and the ambience sink.
func (c *Controller) record(s *game.Session, p *game.Player, in game.Input, now time.Time) {
	ev := ThrowEvent{
		SessionID: s.ID,
		GameID:    s.GameID,
		PlayerID:  p.ID,
		Leg:       s.Leg,
		Round:     s.Round,
		Hits:      in.Hits,
		Signal:    in.Signal,
		At:        now,
	}
	hit := in.Hits > 0
	if !in.Signal {
		ev.Throw = in.Throw
		if n := len(s.TempDarts); n > 0 {
			ev.Throw = s.TempDarts[n-1]
			ev.Dart = n
		}
		hit = !ev.Throw.IsMiss
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	c.emit(outcome)
	c.metrics.ThrowAccepted(s.GameID, outcome)
	c.out.throws = append(c.out.throws, ev)
}

// later runs fn after d with input locked in between. A zero delay runs fn
// at once. Callbacks scheduled for a replaced session are discarded.
func (c *Controller) later(d time.Duration, fn func()) {
	if d <= 0 {
		fn()
		return
	}
	c.locked = true
	epoch := c.epoch
	c.sched.AfterFunc(d, func() {
		c.mu.Lock()
		if c.epoch != epoch {
			c.mu.Unlock()
			return
		}
		c.locked = false
		fn()
		out := c.drain()
		c.mu.Unlock()
		c.deliver(out)
	})
}

// advance rotates to the next unfinished player.
func (c *Controller) advance() {
	s := c.session
	s.TempDarts = nil
	s.Animation = ""
	next, wrapped := s.NextActive()
	if next < 0 {
		c.finish(game.Leader(c.strategy, s), game.TurnResult{Action: game.ActionFinishGame})
		return
	}
	if wrapped {
		s.Round++
	}
	s.CurrentPlayer = next
	s.State = game.StateRunning
	c.publish(UpdateTurn, nil, nil)
}

// resetLeg starts the next leg, keeping match counters.
func (c *Controller) resetLeg() {
	s := c.session
	for _, p := range s.Players {
		c.strategy.InitPlayer(p, s.Options, s.Targets)
	}
	s.Leg++
	s.StartingPlayer = (s.StartingPlayer + 1) % len(s.Players)
	s.CurrentPlayer = s.StartingPlayer
	s.Round = 0
	s.TurnTotal = 0
	s.TempDarts = nil
	s.Animation = ""
	s.State = game.StateRunning
	c.history.Clear()
	c.publish(UpdateLeg, nil, nil)
	c.log.Info().Str("session", s.ID).Int("leg", s.Leg).Msg("leg started")
}

func (c *Controller) finish(winner *game.Player, res game.TurnResult) {
	s := c.session
	s.Status = game.StatusOver
	s.State = game.StateMatchOver
	s.EndedAt = c.clock.Now()
	if winner != nil {
		s.Winner = winner.ID
	}
	win := c.strategy.WinMessage(s, winner, res)
	c.publish(UpdateMatchOver, &res, &win)
	c.emit("match-won")
	c.metrics.SessionFinished(s.GameID)

	rec := Record{Session: s.Clone()}
	for _, p := range s.Players {
		rec.Summaries = append(rec.Summaries, c.strategy.ResultData(s, p))
	}
	c.out.records = append(c.out.records, rec)
	c.log.Info().Str("session", s.ID).Str("winner", s.Winner).Msg("session finished")
}

// Undo rolls back the most recent accepted input. It reports whether
// anything was undone. A finished match cannot be undone, and the log
// only reaches back to the start of the current leg.
func (c *Controller) Undo() bool {
	c.mu.Lock()
	s := c.session
	if s == nil || c.locked || s.Status == game.StatusOver {
		c.mu.Unlock()
		return false
	}
	snap, ok := c.history.Pop()
	if !ok {
		c.mu.Unlock()
		return false
	}
	snap.Restore(s)
	s.State = game.StateRunning
	s.Animation = ""
	c.publish(UpdateUndo, nil, nil)
	out := c.drain()
	c.mu.Unlock()
	c.deliver(out)
	return true
}

// ActiveSession returns a copy of the current session, or nil.
func (c *Controller) ActiveSession() *game.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Clone()
}

// Strategy returns the strategy of the current session.
func (c *Controller) Strategy() game.Strategy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strategy
}

// ResultData projects one player's stats from the current session.
func (c *Controller) ResultData(playerID string) (game.ResultSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return game.ResultSummary{}, ErrNoSession
	}
	p := c.session.Player(playerID)
	if p == nil {
		return game.ResultSummary{}, fmt.Errorf("%w: %s", ErrPlayerNotInGame, playerID)
	}
	return c.strategy.ResultData(c.session, p), nil
}

// Results projects stats for every player in roster order.
func (c *Controller) Results() ([]game.ResultSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, ErrNoSession
	}
	out := make([]game.ResultSummary, 0, len(c.session.Players))
	for _, p := range c.session.Players {
		out = append(out, c.strategy.ResultData(c.session, p))
	}
	return out, nil
}

func (c *Controller) publish(kind string, res *game.TurnResult, win *game.WinMessage) {
	if c.notifier == nil {
		return
	}
	c.out.updates = append(c.out.updates, Update{Kind: kind, Session: c.session.Clone(), Result: res, Win: win})
}

func (c *Controller) emit(category string) {
	if c.events != nil {
		c.out.events = append(c.out.events, category)
	}
}

func (c *Controller) drain() outbox {
	out := c.out
	c.out = outbox{}
	return out
}

// deliver hands collected side effects to collaborators. It runs without
// the lock so collaborators may call back into the controller.
func (c *Controller) deliver(out outbox) {
	for _, u := range out.updates {
		c.notifier.Publish(u)
	}
	for _, e := range out.events {
		c.events.Emit(e)
	}
	if c.recorder != nil {
		for _, t := range out.throws {
			c.recorder.Record(t)
		}
	}
	if c.sink == nil {
		return
	}
	for _, rec := range out.records {
		go func(rec Record) {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			if err := c.sink.SaveSession(ctx, rec); err != nil {
				c.log.Error().Err(err).Str("session", rec.Session.ID).Msg("saving session")
			}
		}(rec)
	}
}
