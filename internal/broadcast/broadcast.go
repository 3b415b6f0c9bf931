package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"dartscorer/internal/engine"
	"dartscorer/internal/events"
)

// EventAmbience is the SSE event name for forwarded ambience categories.
const EventAmbience = "ambience"

type Message struct {
	Event string
	Data  string
}

type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan Message]bool
}

// NewBroadcaster forwards ambience events from bus to every subscriber
// until the bus is closed.
func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan Message]bool),
	}
	go func() {
		for {
			select {
			case ev := <-bus.Ambience:
				b.Broadcast(EventAmbience, ev.Category)
			case <-bus.Done():
				return
			}
		}
	}()
	return b
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

// Unsubscribe removes ch and closes it. Channels already released by
// Close are left alone.
func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.Clients[ch] {
		delete(b.Clients, ch)
		close(ch)
	}
}

// Close releases every subscriber by closing its channel.
func (b *Broadcaster) Close() {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		delete(b.Clients, ch)
		close(ch)
	}
}

func (b *Broadcaster) Broadcast(event string, data string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Message{Event: event, Data: data}:
		default:
			// skip clients with full data channels
		}
	}
}

// Publish sends a session update as JSON under the update's kind.
func (b *Broadcaster) Publish(u engine.Update) {
	data, err := json.Marshal(u)
	if err != nil {
		log.Error().Err(err).Str("kind", u.Kind).Msg("marshal update")
		return
	}
	b.Broadcast(u.Kind, string(data))
}
