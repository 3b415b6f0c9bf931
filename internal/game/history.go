package game

import "dartscorer/internal/dart"

// DefaultUndoCapacity bounds the undo log.
const DefaultUndoCapacity = 50

// Snapshot is the pre-input state needed to reverse one accepted input.
type Snapshot struct {
	CurrentPlayer int
	Round         int
	TurnTotal     int
	Players       []*Player
	TempDarts     []dart.Throw
}

// History is a bounded LIFO of snapshots. When full, the oldest entry is
// discarded.
type History struct {
	capacity int
	entries  []Snapshot
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultUndoCapacity
	}
	return &History{capacity: capacity}
}

// Push records the current state of s.
func (h *History) Push(s *Session) {
	snap := Snapshot{
		CurrentPlayer: s.CurrentPlayer,
		Round:         s.Round,
		TurnTotal:     s.TurnTotal,
		Players:       make([]*Player, len(s.Players)),
		TempDarts:     append([]dart.Throw(nil), s.TempDarts...),
	}
	for i, p := range s.Players {
		snap.Players[i] = p.Clone()
	}
	if len(h.entries) >= h.capacity {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, snap)
}

// Pop removes the most recent snapshot.
func (h *History) Pop() (Snapshot, bool) {
	if len(h.entries) == 0 {
		return Snapshot{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h *History) Len() int { return len(h.entries) }

func (h *History) Clear() { h.entries = h.entries[:0] }

// Restore writes a snapshot back into s.
func (snap Snapshot) Restore(s *Session) {
	s.CurrentPlayer = snap.CurrentPlayer
	s.Round = snap.Round
	s.TurnTotal = snap.TurnTotal
	s.Players = snap.Players
	s.TempDarts = snap.TempDarts
}
