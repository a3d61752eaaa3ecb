package bridge

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/codedsleep/mapd/internal/pkg/metrics"
)

// Loop is the host's single logical UI thread. All surface-state mutation and
// message dispatch happens on the goroutine running Run; async completions
// from network work re-enter through Post. This serialization is what makes
// the marker/route state race-free by construction.
type Loop struct {
	dispatcher *Dispatcher
	inbound    chan Message
	tasks      chan func()
}

// NewLoop wires a loop around a dispatcher.
func NewLoop(d *Dispatcher) *Loop {
	return &Loop{
		dispatcher: d,
		inbound:    make(chan Message, 256),
		tasks:      make(chan func(), 256),
	}
}

// Run processes inbound messages and posted tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case msg := <-l.inbound:
			l.dispatcher.Dispatch(ctx, msg)
		case fn := <-l.tasks:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Submit queues a raw inbound frame for dispatch. Frames that are not valid
// Message envelopes are dropped here, before they reach the loop.
func (l *Loop) Submit(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		slog.Warn("bridge frame dropped: invalid envelope", "error", err)
		metrics.BridgeUnroutable.WithLabelValues("invalid_envelope").Inc()
		return
	}
	if msg.Channel == "" {
		slog.Warn("bridge frame dropped: missing channel tag")
		metrics.BridgeUnroutable.WithLabelValues("invalid_envelope").Inc()
		return
	}
	l.inbound <- msg
}

// Post marshals a completion back onto the loop goroutine. Blocking here is
// acceptable: posters are network goroutines, never the loop itself.
func (l *Loop) Post(fn func()) {
	l.tasks <- fn
}
