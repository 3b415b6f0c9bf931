package boards

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dartscorer/internal/broadcast"
	"dartscorer/internal/engine"
	"dartscorer/internal/events"
	"dartscorer/internal/wshub"
)

const staleTTL = 1 * time.Hour

// SweepInterval is how often RunSweeper looks for idle boards.
const SweepInterval = 5 * time.Minute

var ErrBoardNotFound = errors.New("board not found")

// Deps are the collaborators every board controller is wired to. Nil
// fields are left out.
type Deps struct {
	Engine   engine.Config
	Logger   zerolog.Logger
	Sink     engine.Sink
	Recorder engine.ThrowRecorder
	Metrics  engine.Metrics
}

type Store struct {
	mu     sync.Mutex
	boards map[string]*Board
	deps   Deps
}

func NewStore(deps Deps) *Store {
	return &Store{
		boards: make(map[string]*Board),
		deps:   deps,
	}
}

func (s *Store) Create(name string) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := freeCode(func(c string) bool {
		_, exists := s.boards[c]
		return exists
	})
	if err != nil {
		return nil, fmt.Errorf("generating board code: %w", err)
	}
	if name == "" {
		name = "Board " + code
	}
	b := s.newBoard(code, name)
	s.boards[code] = b
	s.deps.Logger.Info().Str("board", code).Msg("board created")
	return b, nil
}

func (s *Store) newBoard(code, name string) *Board {
	bus := events.NewBus()
	b := &Board{
		Code:        code,
		Name:        name,
		Bus:         bus,
		Broadcaster: broadcast.NewBroadcaster(bus),
		Hub:         wshub.NewHub(),
		CreatedAt:   time.Now(),
	}
	b.Touch(b.CreatedAt)

	opts := []engine.Option{
		engine.WithLogger(s.deps.Logger.With().Str("board", code).Logger()),
		engine.WithNotifier(fanout{b.Broadcaster, b.Hub}),
		engine.WithEvents(bus),
	}
	if s.deps.Sink != nil {
		opts = append(opts, engine.WithSink(s.deps.Sink))
	}
	if s.deps.Recorder != nil {
		opts = append(opts, engine.WithRecorder(s.deps.Recorder))
	}
	if s.deps.Metrics != nil {
		opts = append(opts, engine.WithMetrics(s.deps.Metrics))
	}
	b.Controller = engine.New(s.deps.Engine, opts...)
	return b
}

// Get looks a board up by code, case-insensitively.
func (s *Store) Get(code string) (*Board, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, code)
	}
	return b, nil
}

// Delete removes a board and closes its push channels.
func (s *Store) Delete(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	s.mu.Lock()
	b, ok := s.boards[code]
	delete(s.boards, code)
	s.mu.Unlock()
	if ok {
		b.Close()
		s.deps.Logger.Info().Str("board", code).Msg("board deleted")
	}
}

// List returns every board ordered by code.
func (s *Store) List() []*Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Board, 0, len(s.boards))
	for _, b := range s.boards {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// Sweep drops boards idle for longer than the TTL with nobody connected.
// It returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	var stale []*Board
	for code, b := range s.boards {
		if now.Sub(b.LastActive()) > staleTTL && b.Hub.Len() == 0 {
			delete(s.boards, code)
			stale = append(stale, b)
		}
	}
	s.mu.Unlock()

	for _, b := range stale {
		b.Close()
	}
	if len(stale) > 0 {
		s.deps.Logger.Info().Int("boards", len(stale)).Msg("swept stale boards")
	}
	return len(stale)
}

// RunSweeper sweeps idle boards every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}
