// Package natsadapter mirrors resolved host events to NATS so external
// tooling can observe the map session. Publishing is best-effort and one-way;
// nothing in the host consumes these subjects.
package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/codedsleep/mapd/internal/core/domain"
)

const (
	subjectLocation = "map.location.updated"
	subjectRoute    = "map.route.ready"
)

// Publisher implements ports.EventPublisher over a plain NATS connection.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS with persistent reconnection.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) PublishLocationFix(ctx context.Context, fix domain.LocationFix) error {
	data, err := json.Marshal(fix)
	if err != nil {
		return err
	}
	return p.conn.Publish(subjectLocation, data)
}

func (p *Publisher) PublishRoute(ctx context.Context, route domain.Route) error {
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return p.conn.Publish(subjectRoute, data)
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
