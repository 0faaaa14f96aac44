// Package events fans task changes out to websocket subscribers so open
// clients can refetch without polling.
package events

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"taskloop/internal/clock"
	"taskloop/internal/task"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

type Kind string

const (
	KindCreated Kind = "task_created"
	KindUpdated Kind = "task_updated"
	KindToggled Kind = "task_toggled"
	KindDeleted Kind = "task_deleted"
)

type Event struct {
	Type      Kind      `json:"type"`
	Task      task.Task `json:"task"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	subscriberBuffer = 16
	writeTimeout     = 5 * time.Second
)

type subscriber struct {
	ch chan Event
}

// Hub broadcasts events to every connected subscriber. A subscriber whose
// buffer is full is disconnected rather than blocking publishers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*subscriber]struct{}
	logger  *slog.Logger
	clock   clock.Clock
}

func NewHub(logger *slog.Logger, c clock.Clock) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*subscriber]struct{}),
		logger:  logger,
		clock:   clock.Or(c),
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Publish(kind Kind, t task.Task) {
	ev := Event{Type: kind, Task: t, Timestamp: h.clock.Now().UTC()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.clients {
		select {
		case sub.ch <- ev:
		default:
			h.logger.Warn("events_subscriber_dropped", "reason", "buffer full")
			delete(h.clients, sub)
			close(sub.ch)
		}
	}
}

func (h *Hub) subscribe() *subscriber {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	h.clients[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[sub]; ok {
		delete(h.clients, sub)
		close(sub.ch)
	}
}

// ServeHTTP upgrades the request and streams events until either side goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warn("events_upgrade_failed", "error", err)
		return
	}
	defer conn.CloseNow()

	// Subscribers never send; CloseRead cancels ctx once the peer closes.
	ctx := conn.CloseRead(r.Context())

	sub := h.subscribe()
	defer h.unsubscribe(sub)
	h.logger.Info("events_client_connected", "clients", h.Clients())

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.ch:
			if !ok {
				_ = conn.Close(websocket.StatusPolicyViolation, "subscriber too slow")
				return
			}
			if err := write(ctx, conn, ev); err != nil {
				h.logger.Info("events_client_gone", "error", err)
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, ev)
}
