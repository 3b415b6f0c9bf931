package events

import "sync"

// AmbienceEvent is a category tag for lighting and sound effects such as
// "hit", "bust" or "180".
type AmbienceEvent struct {
	Category string
}

type Bus struct {
	Ambience chan AmbienceEvent

	done chan struct{}
	once sync.Once
}

func NewBus() *Bus {
	return &Bus{
		Ambience: make(chan AmbienceEvent, 10),
		done:     make(chan struct{}),
	}
}

// Emit queues a category without blocking. Events are dropped while the
// channel is full or once the bus is closed.
func (b *Bus) Emit(category string) {
	select {
	case <-b.done:
		return
	default:
	}
	select {
	case b.Ambience <- AmbienceEvent{Category: category}:
	default:
	}
}

// Done is closed when the bus shuts down. Ambience is never closed, so
// late emitters cannot panic; readers select on Done instead.
func (b *Bus) Done() <-chan struct{} { return b.done }

// Close shuts the bus down. It is safe to call more than once.
func (b *Bus) Close() {
	b.once.Do(func() { close(b.done) })
}
