// Package progress defines the status side channel every pipeline stage
// reports into. Sinks are observational only; a slow consumer must never
// stall the pipeline, so the buffered sink drops messages when full.
package progress

import "sync"

// Sink receives human-readable status strings from pipeline stages.
type Sink interface {
	Publish(message string)
}

// Func adapts a plain function to a Sink.
type Func func(message string)

func (f Func) Publish(message string) {
	if f != nil {
		f(message)
	}
}

// Discard returns a Sink that ignores every message.
func Discard() Sink { return Func(nil) }

// Buffered fans messages into a bounded channel without blocking the
// publisher. When the consumer falls behind, the oldest pending message is
// dropped in favor of the newest.
type Buffered struct {
	mu     sync.Mutex
	ch     chan string
	closed bool
}

// NewBuffered creates a Buffered sink with the given capacity (minimum 1).
func NewBuffered(capacity int) *Buffered {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffered{ch: make(chan string, capacity)}
}

// Publish enqueues the message, evicting the oldest pending entry when the
// buffer is full. It never blocks.
func (b *Buffered) Publish(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for {
		select {
		case b.ch <- message:
			return
		default:
		}
		select {
		case <-b.ch:
		default:
		}
	}
}

// Messages exposes the consumer side of the buffer. The channel is closed
// once the sink is closed and drained.
func (b *Buffered) Messages() <-chan string { return b.ch }

// Close stops the sink; subsequent publishes are ignored.
func (b *Buffered) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.ch)
}
