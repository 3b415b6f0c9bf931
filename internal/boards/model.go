package boards

import (
	"sync"
	"time"

	"dartscorer/internal/broadcast"
	"dartscorer/internal/engine"
	"dartscorer/internal/events"
	"dartscorer/internal/wshub"
)

// Board is one physical dartboard with its own session controller and
// push channels.
type Board struct {
	Code        string
	Name        string
	Controller  *engine.Controller
	Bus         *events.Bus
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	CreatedAt   time.Time

	mu         sync.Mutex
	lastActive time.Time
}

// Touch marks the board as in use.
func (b *Board) Touch(now time.Time) {
	b.mu.Lock()
	b.lastActive = now
	b.mu.Unlock()
}

// LastActive reports when the board was last used.
func (b *Board) LastActive() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastActive
}

// Close shuts the board's push channels: the ambience forwarder stops,
// SSE subscribers are released and WebSocket clients are disconnected.
func (b *Board) Close() {
	b.Bus.Close()
	b.Broadcaster.Close()
	b.Hub.Close()
}

// fanout delivers each update to every notifier in order.
type fanout []engine.Notifier

func (f fanout) Publish(u engine.Update) {
	for _, n := range f {
		n.Publish(u)
	}
}
