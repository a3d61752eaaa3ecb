package bridge

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/codedsleep/mapd/internal/pkg/metrics"
)

// HandlerFunc consumes one inbound message payload. A returned error means
// the payload failed structural validation; the message is dropped and the
// channel stays open.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Dispatcher routes inbound bridge messages to exactly one handler per
// channel tag. Unrecognized tags are dropped with a warning, since either
// side may lag behind the other's message vocabulary.
type Dispatcher struct {
	handlers map[string]HandlerFunc
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc)}
}

// Handle registers the handler for a channel, replacing any previous one.
func (d *Dispatcher) Handle(channel string, fn HandlerFunc) {
	d.handlers[channel] = fn
}

// Dispatch delivers one message. It never returns an error: every failure is
// converted into a logged drop so a single bad frame cannot take the bridge
// down.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	fn, ok := d.handlers[msg.Channel]
	if !ok {
		slog.Warn("bridge message dropped: unknown channel", "channel", msg.Channel)
		metrics.BridgeUnroutable.WithLabelValues("unknown_channel").Inc()
		return
	}

	metrics.BridgeMessages.WithLabelValues("inbound", msg.Channel).Inc()

	if err := fn(ctx, msg.Payload); err != nil {
		slog.Warn("bridge message dropped: malformed payload",
			"channel", msg.Channel, "error", err)
		metrics.BridgeUnroutable.WithLabelValues("malformed_payload").Inc()
	}
}
