package server

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"dartscorer/internal/engine"
)

const (
	throwBufferSize = 1000
	throwBatchSize  = 50
	flushInterval   = 500 * time.Millisecond
)

// ThrowWriter persists a batch of throw events.
type ThrowWriter interface {
	BatchRecordThrows(ctx context.Context, events []engine.ThrowEvent) error
}

// ThrowQueue buffers accepted throws for the batch writer. Record never
// blocks the controller; a full buffer drops the event.
type ThrowQueue struct {
	buffer chan engine.ThrowEvent
	onDrop func()
}

func NewThrowQueue(onDrop func()) *ThrowQueue {
	return &ThrowQueue{
		buffer: make(chan engine.ThrowEvent, throwBufferSize),
		onDrop: onDrop,
	}
}

func (q *ThrowQueue) Record(ev engine.ThrowEvent) {
	select {
	case q.buffer <- ev:
	default:
		if q.onDrop != nil {
			q.onDrop()
		}
	}
}

// Run drains the queue into w until ctx is done, then flushes what is left.
func (q *ThrowQueue) Run(ctx context.Context, w ThrowWriter) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]engine.ThrowEvent, 0, throwBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		// the request context may already be gone on shutdown
		if err := w.BatchRecordThrows(context.Background(), batch); err != nil {
			log.Error().Err(err).Int("n", len(batch)).Msg("batch record throws")
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-q.buffer:
			batch = append(batch, ev)
			if len(batch) >= throwBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			for {
				select {
				case ev := <-q.buffer:
					batch = append(batch, ev)
				default:
					flush()
					return
				}
			}
		}
	}
}
