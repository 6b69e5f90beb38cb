package scanner

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/keeper-labs/liquidation-engine/messages"
)

// DefaultSubscriberBuffer is the channel depth handed to each subscriber.
const DefaultSubscriberBuffer = 256

// Bus fans underwater alerts out to subscribers. Publish never blocks: a
// subscriber that has fallen behind its buffer loses the event, keeping one
// slow consumer from stalling the scan path.
type Bus struct {
	mu     sync.Mutex
	subs   []chan messages.UnderwaterEvent
	buffer int
	closed bool
	logger zerolog.Logger
}

// NewBus returns a bus whose subscribers get channels of the given buffer
// depth. A depth below one is raised to DefaultSubscriberBuffer.
func NewBus(buffer int, logger zerolog.Logger) *Bus {
	if buffer < 1 {
		buffer = DefaultSubscriberBuffer
	}
	return &Bus{
		buffer: buffer,
		logger: logger.With().Str("component", "alert-bus").Logger(),
	}
}

// Subscribe registers a new consumer and returns its receive channel. The
// channel is closed when the bus closes. Subscribing to a closed bus
// returns an already-closed channel.
func (b *Bus) Subscribe() <-chan messages.UnderwaterEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan messages.UnderwaterEvent, b.buffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers the event to every subscriber that has buffer space.
func (b *Bus) Publish(ev messages.UnderwaterEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Warn().
				Str("trace_id", ev.TraceID).
				Str("address", ev.Address.Hex()).
				Msg("subscriber buffer full, dropping alert")
		}
	}
}

// Close closes every subscriber channel. Further publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
