package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/motmap/internal/core/domain"
	"github.com/samirrijal/motmap/internal/core/ports"
	"github.com/samirrijal/motmap/internal/pkg/metrics"
)

const (
	// StreamName is the JetStream stream holding restaurant events.
	StreamName = "RESTAURANT_EVENTS"
	// SubjectPrefix prefixes every restaurant event subject.
	SubjectPrefix = "restaurants.events"
)

// EventSubject returns the subject for an event: restaurants.events.<type>.<CATEGORY>.
func EventSubject(typ domain.EventType, category domain.Category) string {
	c := string(category)
	if c == "" {
		c = string(domain.CategoryEtc)
	}
	return SubjectPrefix + "." + string(typ) + "." + strings.ToUpper(c)
}

// CategorySubject matches every event type for one category, or all
// categories when category is empty.
func CategorySubject(category string) string {
	if category == "" {
		return SubjectPrefix + ".>"
	}
	return SubjectPrefix + ".*." + strings.ToUpper(category)
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{SubjectPrefix + ".>"},
		Retention:  nats.LimitsPolicy,
		MaxAge:     24 * time.Hour,
		Storage:    nats.FileStorage,
		Duplicates: 2 * time.Minute,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishRestaurantEvent publishes event; the event ID deduplicates retries.
func (p *Publisher) PublishRestaurantEvent(ctx context.Context, event *domain.RestaurantEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(EventSubject(event.Type, event.Restaurant.Category), data,
		nats.Context(ctx),
		nats.MsgId(event.ID),
	)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.EventsPublished.WithLabelValues(string(event.Type), status).Inc()
	return err
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("motmap"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
