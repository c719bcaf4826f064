package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/motmap/internal/adapters/nats"
	"github.com/samirrijal/motmap/internal/core/domain"
	"github.com/samirrijal/motmap/internal/pkg/metrics"
)

const wsPingInterval = 30 * time.Second

// wsMessage is sent by clients to change their category filter.
// An empty category means every category.
type wsMessage struct {
	Action   string `json:"action"` // "subscribe" | "unsubscribe"
	Category string `json:"category"`
}

// wsSession owns one client's NATS subscriptions. Writes are serialized
// because the NATS callbacks, the pinger and the read loop share the conn.
type wsSession struct {
	conn *websocket.Conn
	nc   *nats.Conn
	log  *slog.Logger

	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

func (s *wsSession) write(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

func (s *wsSession) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.write(websocket.TextMessage, data)
}

func (s *wsSession) relay(msg *nats.Msg) {
	_ = s.write(websocket.TextMessage, msg.Data)
}

// overlapping returns the active subjects that would duplicate deliveries
// once subject is added: the catch-all when narrowing to a category, and
// every category when widening to the catch-all.
func overlapping(active map[string]*nats.Subscription, subject string) []string {
	all := natsadapter.CategorySubject("")
	var out []string
	for s := range active {
		if s == subject {
			continue
		}
		if subject == all || s == all {
			out = append(out, s)
		}
	}
	return out
}

// subscribe adds subject and drops overlapping subscriptions so each event
// is delivered once.
func (s *wsSession) subscribe(subject string) error {
	if _, ok := s.subs[subject]; ok {
		s.send(wsStatus("already subscribed", subject))
		return nil
	}
	sub, err := s.nc.Subscribe(subject, s.relay)
	if err != nil {
		return err
	}
	for _, other := range overlapping(s.subs, subject) {
		s.unsubscribe(other)
	}
	s.subs[subject] = sub
	s.send(wsStatus("subscribed", subject))
	return nil
}

func (s *wsSession) unsubscribe(subject string) bool {
	sub, ok := s.subs[subject]
	if !ok {
		return false
	}
	_ = sub.Unsubscribe()
	delete(s.subs, subject)
	return true
}

func (s *wsSession) close() {
	for subject := range s.subs {
		s.unsubscribe(subject)
	}
}

func (s *wsSession) ping(done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *wsSession) handle(m wsMessage) {
	subject := natsadapter.CategorySubject("")
	if m.Category != "" {
		cat, err := domain.ParseCategory(m.Category)
		if err != nil {
			s.send(map[string]string{"error": err.Error()})
			return
		}
		subject = natsadapter.CategorySubject(string(cat))
	}

	switch m.Action {
	case "subscribe":
		if err := s.subscribe(subject); err != nil {
			s.log.Warn("ws subscribe failed", "subject", subject, "error", err)
			s.send(map[string]string{"error": "subscribe failed: " + err.Error()})
		}
	case "unsubscribe":
		if s.unsubscribe(subject) {
			s.send(wsStatus("unsubscribed", subject))
		} else {
			s.send(map[string]string{"error": "not subscribed to " + subject})
		}
	default:
		s.send(map[string]string{"error": "unknown action: " + m.Action})
	}
}

func wsStatus(status, subject string) map[string]string {
	return map[string]string{"status": status, "subject": subject}
}

// WebSocketHandler relays restaurant change events from NATS to connected
// clients. Clients start subscribed to every category and may narrow it
// with {"action":"subscribe","category":"KOREAN"}.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		log := slog.Default().With("remote_addr", c.RemoteAddr().String())
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		if nc == nil {
			_ = c.WriteJSON(map[string]string{"error": "event stream unavailable"})
			return
		}

		s := &wsSession{conn: c, nc: nc, log: log, subs: make(map[string]*nats.Subscription)}
		defer s.close()
		if err := s.subscribe(natsadapter.CategorySubject("")); err != nil {
			log.Error("ws default subscribe failed", "error", err)
			return
		}
		log.Info("ws client connected")

		done := make(chan struct{})
		defer close(done)
		go s.ping(done)

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}
			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				s.send(map[string]string{"error": "invalid JSON"})
				continue
			}
			s.handle(m)
		}
		log.Info("ws client disconnected")
	}
}
