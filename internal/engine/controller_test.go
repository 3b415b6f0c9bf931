package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dartscorer/internal/game"
)

type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, f)
	m.delays = append(m.delays, d)
}

// runAll fires every pending callback in order.
func (m *manualScheduler) runAll() {
	m.mu.Lock()
	fns := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

type capture struct {
	mu      sync.Mutex
	updates []Update
	events  []string
	throws  []ThrowEvent
	saved   chan Record
}

func newCapture() *capture { return &capture{saved: make(chan Record, 4)} }

func (c *capture) Publish(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *capture) Emit(cat string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, cat)
}

func (c *capture) Record(ev ThrowEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.throws = append(c.throws, ev)
}

func (c *capture) SaveSession(_ context.Context, rec Record) error {
	c.saved <- rec
	return nil
}

func (c *capture) hasEvent(cat string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.events {
		if e == cat {
			return true
		}
	}
	return false
}

type harness struct {
	c     *Controller
	sched *manualScheduler
	clock *fakeClock
	cap   *capture
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		sched: &manualScheduler{},
		clock: &fakeClock{now: time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)},
		cap:   newCapture(),
	}
	h.c = New(cfg,
		WithScheduler(h.sched),
		WithClock(h.clock),
		WithNotifier(h.cap),
		WithEvents(h.cap),
		WithRecorder(h.cap),
		WithSink(h.cap),
	)
	return h
}

// throw submits code a second after the previous input.
func (h *harness) throw(code string) Step {
	h.clock.Advance(time.Second)
	return h.c.Submit(code)
}

func (h *harness) throws(codes ...string) Step {
	var s Step
	for _, c := range codes {
		s = h.throw(c)
	}
	return s
}

func instant() Config {
	return Config{UndoCapacity: 50}
}

func roster(names ...string) []Entrant {
	out := make([]Entrant, len(names))
	for i, n := range names {
		out[i] = Entrant{ID: n, Name: n}
	}
	return out
}

func TestStartSession_Rejects(t *testing.T) {
	h := newHarness(t, instant())
	if err := h.c.StartSession(game.X01, nil, game.Options{}); !errors.Is(err, ErrNoPlayers) {
		t.Errorf("no players: err = %v, want ErrNoPlayers", err)
	}
	if err := h.c.StartSession("golf", roster("a"), game.Options{}); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("unknown game: err = %v, want ErrUnknownGame", err)
	}
	if err := h.c.StartSession(game.X01, roster("a", "a"), game.Options{}); !errors.Is(err, ErrDuplicatePlayer) {
		t.Errorf("duplicate: err = %v, want ErrDuplicatePlayer", err)
	}
	if h.c.ActiveSession() != nil {
		t.Error("rejected start must not leave a session")
	}
}

func TestStartSession_AppliesDefaults(t *testing.T) {
	h := newHarness(t, instant())
	if err := h.c.StartSession(game.X01, roster("a"), game.Options{}); err != nil {
		t.Fatal(err)
	}
	s := h.c.ActiveSession()
	if s.Players[0].Residual != 501 || !s.Options.DoubleOut {
		t.Errorf("defaults not applied: residual=%d doubleOut=%v", s.Players[0].Residual, s.Options.DoubleOut)
	}
	if len(h.cap.updates) == 0 || h.cap.updates[0].Kind != UpdateSessionReady {
		t.Error("expected a session-ready update")
	}
}

func TestSubmit_NoSession(t *testing.T) {
	h := newHarness(t, instant())
	if step := h.throw("T20"); step.Accepted || step.Reason != DropNoSession {
		t.Errorf("step = %+v, want dropped no-session", step)
	}
}

func TestSubmit_RotatesPlayersAndRounds(t *testing.T) {
	h := newHarness(t, instant())
	h.c.StartSession(game.X01, roster("a", "b"), game.Options{StartScore: 501})

	h.throws("S1", "S1", "S1")
	s := h.c.ActiveSession()
	if s.CurrentPlayer != 1 || s.Round != 0 || s.TurnTotal != 1 {
		t.Fatalf("after a's turn: current=%d round=%d total=%d", s.CurrentPlayer, s.Round, s.TurnTotal)
	}
	if len(s.TempDarts) != 0 {
		t.Errorf("buffer not cleared: %v", s.TempDarts)
	}
	h.throws("S1", "S1", "S1")
	s = h.c.ActiveSession()
	if s.CurrentPlayer != 0 || s.Round != 1 || s.TurnTotal != 2 {
		t.Errorf("after b's turn: current=%d round=%d total=%d", s.CurrentPlayer, s.Round, s.TurnTotal)
	}
}

func TestSubmit_Debounce(t *testing.T) {
	cfg := instant()
	cfg.Debounce = 150 * time.Millisecond
	h := newHarness(t, cfg)
	h.c.StartSession(game.X01, roster("a"), game.Options{StartScore: 501})

	if step := h.throw("S20"); !step.Accepted {
		t.Fatal("first throw should be accepted")
	}
	h.clock.Advance(50 * time.Millisecond)
	if step := h.c.Submit("S20"); step.Accepted || step.Reason != DropDebounce {
		t.Errorf("step = %+v, want debounce drop", step)
	}
	h.clock.Advance(200 * time.Millisecond)
	if step := h.c.Submit("S20"); !step.Accepted {
		t.Errorf("throw after debounce window should be accepted: %+v", step)
	}
	if got := h.c.ActiveSession().Players[0].Residual; got != 461 {
		t.Errorf("Residual = %d, want 461", got)
	}
}

func TestSubmit_BustLocksUntilTransition(t *testing.T) {
	cfg := instant()
	cfg.BustDelay = 1500 * time.Millisecond
	h := newHarness(t, cfg)
	h.c.StartSession(game.X01, roster("a", "b"), game.Options{StartScore: 40, DoubleOut: true})

	step := h.throw("T20")
	if step.Result.Action != game.ActionBust {
		t.Fatalf("action = %s, want BUST", step.Result.Action)
	}
	if len(h.sched.delays) != 1 || h.sched.delays[0] != 1500*time.Millisecond {
		t.Fatalf("scheduled delays = %v, want [1.5s]", h.sched.delays)
	}
	s := h.c.ActiveSession()
	if s.State != game.StateAwaitingNext || s.Animation != "bust" {
		t.Errorf("state=%s animation=%q, want awaiting-next-player bust", s.State, s.Animation)
	}
	if step := h.throw("S20"); step.Accepted || step.Reason != DropLocked {
		t.Errorf("step while locked = %+v, want locked drop", step)
	}
	if h.c.Undo() {
		t.Error("undo while locked should be a no-op")
	}

	h.sched.runAll()
	s = h.c.ActiveSession()
	if s.CurrentPlayer != 1 || s.State != game.StateRunning {
		t.Errorf("after transition current=%d state=%s", s.CurrentPlayer, s.State)
	}
	if s.Players[0].Residual != 40 {
		t.Errorf("bust residual = %d, want 40", s.Players[0].Residual)
	}
	if step := h.throw("S20"); !step.Accepted {
		t.Errorf("input after transition should be accepted: %+v", step)
	}
}

func TestUndo_RestoresPreThrowState(t *testing.T) {
	h := newHarness(t, instant())
	h.c.StartSession(game.X01, roster("a", "b"), game.Options{StartScore: 501})

	h.throws("T20", "T20")
	before := h.c.ActiveSession()
	h.throw("T20")
	if h.c.ActiveSession().CurrentPlayer != 1 {
		t.Fatal("turn should have rotated")
	}
	if !h.c.Undo() {
		t.Fatal("undo should succeed")
	}
	after := h.c.ActiveSession()
	if after.CurrentPlayer != before.CurrentPlayer || after.Round != before.Round || after.TurnTotal != before.TurnTotal {
		t.Errorf("indices not restored: %+v vs %+v", after, before)
	}
	if after.Players[0].Residual != 381 || len(after.TempDarts) != 2 {
		t.Errorf("residual=%d buffer=%d, want 381 and 2 darts", after.Players[0].Residual, len(after.TempDarts))
	}
	if len(after.Players[0].Turns) != 0 {
		t.Errorf("closed turn not discarded: %+v", after.Players[0].Turns)
	}

	h.c.Undo()
	h.c.Undo()
	if h.c.Undo() {
		t.Error("undo past the start of the log should be a no-op")
	}
	if got := h.c.ActiveSession().Players[0].Residual; got != 501 {
		t.Errorf("Residual = %d, want 501", got)
	}
}

func TestUndo_Bounded(t *testing.T) {
	cfg := instant()
	cfg.UndoCapacity = 2
	h := newHarness(t, cfg)
	h.c.StartSession(game.ScoringDrill, roster("a"), game.Options{DartLimit: 99})
	h.throws("S1", "S2", "S3", "S4")
	undone := 0
	for h.c.Undo() {
		undone++
	}
	if undone != 2 {
		t.Errorf("undone = %d, want 2", undone)
	}
	if got := h.c.ActiveSession().Players[0].Score; got != 3 {
		t.Errorf("Score = %d, want 3", got)
	}
}

func TestLegReset(t *testing.T) {
	h := newHarness(t, instant())
	h.c.StartSession(game.X01, roster("a", "b"), game.Options{StartScore: 40, DoubleOut: true, BestOf: 3})

	step := h.throw("D20")
	if step.Result.Action != game.ActionWinLeg {
		t.Fatalf("action = %s, want WIN_LEG", step.Result.Action)
	}
	s := h.c.ActiveSession()
	if s.Leg != 1 || s.StartingPlayer != 1 || s.CurrentPlayer != 1 {
		t.Errorf("leg=%d starting=%d current=%d, want 1 1 1", s.Leg, s.StartingPlayer, s.CurrentPlayer)
	}
	if s.Players[0].LegsWon != 1 || s.Players[0].Residual != 40 {
		t.Errorf("a legs=%d residual=%d, want 1 40", s.Players[0].LegsWon, s.Players[0].Residual)
	}
	if s.Round != 0 || s.TurnTotal != 0 || len(s.TempDarts) != 0 {
		t.Errorf("counters not cleared: round=%d total=%d buffer=%d", s.Round, s.TurnTotal, len(s.TempDarts))
	}
	if h.c.Undo() {
		t.Error("undo across a leg boundary should be a no-op")
	}

	h.throws("MISS", "MISS", "MISS")
	s = h.c.ActiveSession()
	if s.CurrentPlayer != 0 || s.Round != 0 {
		t.Errorf("after b opens leg 2: current=%d round=%d, want 0 0", s.CurrentPlayer, s.Round)
	}
	h.throws("MISS", "MISS", "MISS")
	if s = h.c.ActiveSession(); s.Round != 1 {
		t.Errorf("round = %d, want 1 once the rotation wraps past the starting player", s.Round)
	}
}

func TestLegReset_Delayed(t *testing.T) {
	cfg := instant()
	cfg.LegDelay = 2 * time.Second
	h := newHarness(t, cfg)
	h.c.StartSession(game.X01, roster("a", "b"), game.Options{StartScore: 40, DoubleOut: true, BestOf: 3})
	h.throw("D20")
	if s := h.c.ActiveSession(); s.State != game.StateLegOver {
		t.Errorf("state = %s, want leg-over", s.State)
	}
	if step := h.throw("S1"); step.Reason != DropLocked {
		t.Errorf("step = %+v, want locked", step)
	}
	h.sched.runAll()
	if s := h.c.ActiveSession(); s.Leg != 1 || s.State != game.StateRunning {
		t.Errorf("leg=%d state=%s after delay", s.Leg, s.State)
	}
}

func TestMatchOver(t *testing.T) {
	h := newHarness(t, instant())
	h.c.StartSession(game.X01, roster("a", "b"), game.Options{StartScore: 40, DoubleOut: true})
	step := h.throw("D20")
	if step.Result.Action != game.ActionWinMatch {
		t.Fatalf("action = %s, want WIN_MATCH", step.Result.Action)
	}
	s := h.c.ActiveSession()
	if s.Status != game.StatusOver || s.State != game.StateMatchOver || s.Winner != "a" {
		t.Errorf("status=%s state=%s winner=%s", s.Status, s.State, s.Winner)
	}
	if step := h.throw("S1"); step.Accepted || step.Reason != DropOver {
		t.Errorf("step after match = %+v, want over drop", step)
	}
	if h.c.Undo() {
		t.Error("undo after the match should be a no-op")
	}
	if !h.cap.hasEvent("match-won") || !h.cap.hasEvent("checkout") {
		t.Errorf("events = %v", h.cap.events)
	}

	select {
	case rec := <-h.cap.saved:
		if len(rec.Summaries) != 2 || rec.Session.Winner != "a" {
			t.Errorf("record = %+v", rec)
		}
	case <-time.After(time.Second):
		t.Fatal("session was not persisted")
	}

	last := h.cap.updates[len(h.cap.updates)-1]
	if last.Kind != UpdateMatchOver || last.Win == nil || last.Win.Title != "Match won" {
		t.Errorf("last update = %+v", last)
	}
}

func TestFinishGame_PicksLeader(t *testing.T) {
	h := newHarness(t, instant())
	h.c.StartSession(game.SingleTraining, roster("a", "b"), game.Options{})
	for round := 0; round < 21; round++ {
		h.throws("T20", "T20", "T20")
		h.throws("MISS", "MISS", "MISS")
	}
	s := h.c.ActiveSession()
	if s.Status != game.StatusOver || s.Winner != "a" {
		t.Errorf("status=%s winner=%q, want over a", s.Status, s.Winner)
	}
}

func TestSignals(t *testing.T) {
	h := newHarness(t, instant())
	h.c.StartSession(game.X01, roster("a"), game.Options{StartScore: 501})
	if step := h.c.Submit(game.HitsInput(2)); step.Accepted || step.Reason != DropUnsupported {
		t.Errorf("x01 signal = %+v, want dropped", step)
	}

	h.c.StartSession(game.Bobs27, roster("a"), game.Options{})
	step := h.c.Submit(game.HitsInput(1))
	if !step.Accepted || step.Result.Action != game.ActionNextTurn {
		t.Fatalf("bobs27 signal = %+v", step)
	}
	if got := h.c.ActiveSession().Players[0].Residual; got != 29 {
		t.Errorf("Residual = %d, want 29", got)
	}
}

func TestStaleCallbackIgnored(t *testing.T) {
	cfg := instant()
	cfg.BustDelay = time.Second
	h := newHarness(t, cfg)
	h.c.StartSession(game.X01, roster("a", "b"), game.Options{StartScore: 40, DoubleOut: true})
	h.throw("T20")
	h.c.StartSession(game.Cricket, roster("c", "d"), game.Options{})
	h.sched.runAll()
	s := h.c.ActiveSession()
	if s.GameID != game.Cricket || s.CurrentPlayer != 0 {
		t.Errorf("stale callback touched the new session: %+v", s)
	}
	if step := h.throw("S20"); !step.Accepted {
		t.Errorf("new session should accept input: %+v", step)
	}
}

func TestRematch(t *testing.T) {
	h := newHarness(t, instant())
	if err := h.c.Rematch(); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
	h.c.StartSession(game.X01, roster("a", "b"), game.Options{StartScore: 40, DoubleOut: true})
	first := h.c.ActiveSession().ID
	h.throw("D20")
	if err := h.c.Rematch(); err != nil {
		t.Fatal(err)
	}
	s := h.c.ActiveSession()
	if s.ID == first || s.Status != game.StatusRunning || s.Players[0].Residual != 40 || len(s.Players) != 2 {
		t.Errorf("rematch session = %+v", s)
	}
}

func TestActiveSessionIsCopy(t *testing.T) {
	h := newHarness(t, instant())
	h.c.StartSession(game.X01, roster("a"), game.Options{StartScore: 501})
	s := h.c.ActiveSession()
	s.Players[0].Residual = 1
	if h.c.ActiveSession().Players[0].Residual != 501 {
		t.Error("mutating the returned session leaked into the controller")
	}
}

func TestThrowEventsRecorded(t *testing.T) {
	h := newHarness(t, instant())
	h.c.StartSession(game.Cricket, roster("a"), game.Options{})
	h.throws("T20", "MISS")
	if len(h.cap.throws) != 2 {
		t.Fatalf("recorded %d throws, want 2", len(h.cap.throws))
	}
	ev := h.cap.throws[0]
	if ev.PlayerID != "a" || ev.Throw.Segment != "T20" || ev.Dart != 1 {
		t.Errorf("event = %+v", ev)
	}
	if !h.cap.hasEvent("hit") || !h.cap.hasEvent("miss") {
		t.Errorf("events = %v", h.cap.events)
	}
}

func TestResultData(t *testing.T) {
	h := newHarness(t, instant())
	if _, err := h.c.ResultData("a"); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
	h.c.StartSession(game.ScoringDrill, roster("a"), game.Options{DartLimit: 3})
	h.throws("T20", "T20", "T20")
	r, err := h.c.ResultData("a")
	if err != nil {
		t.Fatal(err)
	}
	if r.Score != 180 {
		t.Errorf("Score = %d, want 180", r.Score)
	}
	if _, err := h.c.ResultData("zz"); !errors.Is(err, ErrPlayerNotInGame) {
		t.Errorf("err = %v, want ErrPlayerNotInGame", err)
	}
}

type outcomeCounter struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *outcomeCounter) ThrowAccepted(_ game.GameID, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}
func (o *outcomeCounter) TurnEnded(game.GameID, game.Action) {}
func (o *outcomeCounter) SessionStarted(game.GameID)         {}
func (o *outcomeCounter) SessionFinished(game.GameID)        {}

func TestSubmit_MissReportsMissOutcome(t *testing.T) {
	sink := newCapture()
	counter := &outcomeCounter{}
	c := New(instant(), WithEvents(sink), WithRecorder(sink), WithMetrics(counter))
	if err := c.StartSession(game.ScoringDrill, roster("a"), game.Options{}); err != nil {
		t.Fatal(err)
	}
	for _, raw := range []any{"MISS", "X5", nil} {
		if step := c.Submit(raw); !step.Accepted {
			t.Fatalf("Submit(%v) dropped: %s", raw, step.Reason)
		}
	}

	want := []string{UpdateSessionReady, "miss", "miss", "miss"}
	if len(sink.events) != len(want) {
		t.Fatalf("events = %v, want %v", sink.events, want)
	}
	for i := range want {
		if sink.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, sink.events[i], want[i])
		}
	}
	for i, ev := range sink.throws {
		if !ev.Throw.IsMiss {
			t.Errorf("throw %d = %+v, want a miss", i, ev.Throw)
		}
	}
	for i, o := range counter.outcomes {
		if o != "miss" {
			t.Errorf("outcome %d = %q, want miss", i, o)
		}
	}
}
