package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub streams snapshots to every connected viewer. A viewer that cannot keep up is dropped.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	latest      []byte
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

func newHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Broadcast sends a snapshot to every viewer and keeps it for viewers joining later
func (h *Hub) Broadcast(s Snapshot) {
	data, err := json.Marshal(s)
	if err != nil {
		h.logger.Error("failed to marshal snapshot", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	h.latest = data
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Debug("dropping viewer", slog.Any("error", err))
			h.remove(sub)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub]
	delete(h.subscribers, sub)
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(data)
}

func (s *subscriber) writeLocked(data []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// ServeHTTP upgrades a viewer connection, sends it the latest snapshot and keeps it subscribed
// until it disconnects. Viewers only listen; anything they send is discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("remote", r.RemoteAddr), slog.Any("error", err))
		return
	}

	// Broadcasts wait on sub.mu until the latest snapshot is out, so the viewer never sees steps out of order
	sub := &subscriber{conn: conn}
	sub.mu.Lock()
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	latest := h.latest
	h.mu.Unlock()

	if latest != nil {
		err = sub.writeLocked(latest)
	}
	sub.mu.Unlock()
	if err != nil {
		h.remove(sub)
		return
	}
	h.logger.Info("viewer connected", slog.String("remote", r.RemoteAddr))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(sub)
			h.logger.Info("viewer disconnected", slog.String("remote", r.RemoteAddr))
			return
		}
	}
}

// Close disconnects every viewer
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[*subscriber]struct{})
	h.mu.Unlock()

	for sub := range subs {
		sub.mu.Lock()
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutting down")
		sub.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
		sub.mu.Unlock()
		sub.conn.Close()
	}
}
