package game

import (
	"strconv"
	"time"

	"dartscorer/internal/dart"
)

type GameID string

const (
	X01               GameID = "x01"
	Cricket           GameID = "cricket"
	Shanghai          GameID = "shanghai"
	AroundTheBoard    GameID = "around-the-board"
	Bobs27            GameID = "bobs-27"
	HalveIt           GameID = "halve-it"
	CheckoutChallenge GameID = "checkout-challenge"
	ScoringDrill      GameID = "scoring-drill"
	SingleTraining    GameID = "single-training"
)

type Status string

const (
	StatusRunning Status = "running"
	StatusOver    Status = "over"
)

// State is the controller's position in the turn state machine.
type State string

const (
	StateRunning      State = "running"
	StateAwaitingNext State = "awaiting-next-player"
	StateLegOver      State = "leg-over"
	StateMatchOver    State = "match-over"
)

// Target identifies what a round or a player is aiming at: a number, the
// bull, or a symbolic condition.
type Target string

const (
	TargetBull      Target = "BULL"
	TargetAnyDouble Target = "ANY_DOUBLE"
	TargetAnyTriple Target = "ANY_TRIPLE"
	TargetAll       Target = "ALL"
)

func NumberTarget(n int) Target {
	if n == dart.Bull {
		return TargetBull
	}
	return Target(strconv.Itoa(n))
}

// Number returns the board number of a numeric or bull target.
func (t Target) Number() (int, bool) {
	if t == TargetBull {
		return dart.Bull, true
	}
	n, err := strconv.Atoi(string(t))
	if err != nil {
		return 0, false
	}
	return n, true
}

const (
	OrderAscending  = "ascending"
	OrderDescending = "descending"
	OrderRandom     = "random"
)

// Options configures a session. Each mode reads the fields it cares about
// and ignores the rest.
type Options struct {
	StartScore  int      `json:"startScore,omitempty" yaml:"startScore,omitempty"`
	DoubleIn    bool     `json:"doubleIn,omitempty" yaml:"doubleIn,omitempty"`
	DoubleOut   bool     `json:"doubleOut,omitempty" yaml:"doubleOut,omitempty"`
	BestOf      int      `json:"bestOf,omitempty" yaml:"bestOf,omitempty"`
	Sets        bool     `json:"sets,omitempty" yaml:"sets,omitempty"`
	RoundLimit  int      `json:"roundLimit,omitempty" yaml:"roundLimit,omitempty"`
	Rounds      int      `json:"rounds,omitempty" yaml:"rounds,omitempty"`
	Order       string   `json:"order,omitempty" yaml:"order,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	DartLimit   int      `json:"dartLimit,omitempty" yaml:"dartLimit,omitempty"`
	UseSpecials bool     `json:"useSpecials,omitempty" yaml:"useSpecials,omitempty"`
	Sequence    []Target `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Seed        uint64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Turn is a closed group of up to three darts for one player.
type Turn struct {
	Round     int          `json:"round"`
	Leg       int          `json:"leg"`
	Target    Target       `json:"target,omitempty"`
	Score     int          `json:"score"`
	Darts     []dart.Throw `json:"darts"`
	Hits      int          `json:"hits,omitempty"`
	Bust      bool         `json:"bust,omitempty"`
	LegFinish bool         `json:"legFinish,omitempty"`
	Checkout  bool         `json:"checkout,omitempty"`
	Marks     map[int]int  `json:"marks,omitempty"`
	MarksHit  int          `json:"marksHit,omitempty"`
}

// Player holds everything a mode tracks for one participant. Mode state
// lives here, not in the strategies, so an undo snapshot of the player
// array restores it completely.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Residual int    `json:"residual"`
	Score    int    `json:"score"`
	Finished bool   `json:"finished"`
	Turns    []Turn `json:"turns"`

	// x01
	HasDoubledIn       bool `json:"hasDoubledIn,omitempty"`
	TurnStartResidual  int  `json:"turnStartResidual,omitempty"`
	TurnStartDoubledIn bool `json:"-"`
	LegsWon            int  `json:"legsWon,omitempty"`
	SetsWon            int  `json:"setsWon,omitempty"`

	// cricket
	Marks map[int]int `json:"marks,omitempty"`

	// bob's 27
	Eliminated bool `json:"eliminated,omitempty"`

	// sequential and drill modes
	TargetIndex int `json:"targetIndex,omitempty"`
	DartsThrown int `json:"dartsThrown,omitempty"`

	// checkout challenge / halve-it
	Successes int `json:"successes,omitempty"`
	Halvings  int `json:"halvings,omitempty"`
}

// Clone copies the player deeply enough that later mutation of either copy
// is invisible to the other. Closed turns are never mutated, so their dart
// slices are shared.
func (p *Player) Clone() *Player {
	c := *p
	if p.Turns != nil {
		c.Turns = make([]Turn, len(p.Turns))
		copy(c.Turns, p.Turns)
	}
	if p.Marks != nil {
		c.Marks = make(map[int]int, len(p.Marks))
		for k, v := range p.Marks {
			c.Marks[k] = v
		}
	}
	return &c
}

// LegTurns returns the turns the player has closed in the given leg.
func (p *Player) LegTurns(leg int) []Turn {
	var out []Turn
	for _, t := range p.Turns {
		if t.Leg == leg {
			out = append(out, t)
		}
	}
	return out
}

// Session is the aggregate root of one match or training block.
type Session struct {
	ID             string       `json:"id"`
	GameID         GameID       `json:"gameId"`
	Options        Options      `json:"options"`
	Targets        []Target     `json:"targets"`
	Players        []*Player    `json:"players"`
	CurrentPlayer  int          `json:"currentPlayer"`
	StartingPlayer int          `json:"startingPlayer"`
	Round          int          `json:"round"`
	TurnTotal      int          `json:"turnTotal"`
	Leg            int          `json:"leg"`
	TempDarts      []dart.Throw `json:"tempDarts"`
	Status         Status       `json:"status"`
	State          State        `json:"state"`
	Animation      string       `json:"animation,omitempty"`
	Winner         string       `json:"winner,omitempty"`
	StartedAt      time.Time    `json:"startedAt"`
	EndedAt        time.Time    `json:"endedAt,omitempty"`
}

// Input is one unit of player input: a canonical throw or, for modes that
// accept aggregate entry, a hit-count signal for a whole turn.
type Input struct {
	Throw  dart.Throw
	Hits   int
	Signal bool
}

func ThrowInput(t dart.Throw) Input { return Input{Throw: t} }

// HitsInput clamps n into 0..3.
func HitsInput(n int) Input {
	if n < 0 {
		n = 0
	}
	if n > 3 {
		n = 3
	}
	return Input{Hits: n, Signal: true}
}

type Action string

const (
	ActionContinue   Action = "CONTINUE"
	ActionNextTurn   Action = "NEXT_TURN"
	ActionBust       Action = "BUST"
	ActionWinLeg     Action = "WIN_LEG"
	ActionWinMatch   Action = "WIN_MATCH"
	ActionFinishGame Action = "FINISH_GAME"
)

// Ends reports whether the action closes the current turn.
func (a Action) Ends() bool { return a != ActionContinue }

// Terminal reports whether the action ends the match.
func (a Action) Terminal() bool { return a == ActionWinMatch || a == ActionFinishGame }

// Overlay is a transient annotation for the presentation layer. Category
// doubles as the ambience event tag.
type Overlay struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

type TurnResult struct {
	Action  Action        `json:"action"`
	Overlay *Overlay      `json:"overlay,omitempty"`
	Delay   time.Duration `json:"delay,omitempty"`
}

func Continue() TurnResult { return TurnResult{Action: ActionContinue} }
func NextTurn() TurnResult { return TurnResult{Action: ActionNextTurn} }

func (r TurnResult) WithOverlay(text, category string) TurnResult {
	r.Overlay = &Overlay{Text: text, Category: category}
	return r
}

func (r TurnResult) WithDelay(d time.Duration) TurnResult {
	r.Delay = d
	return r
}

type WinMessage struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	NextLabel string `json:"nextLabel"`
}
