// Package realtime pushes messages to browser dashboards over WebSockets.
package realtime

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

type subscriber struct {
	msgs chan []byte
}

// Hub keeps the open connections per topic. Broadcast never blocks: a
// subscriber whose buffer is full misses the message.
type Hub struct {
	mu             sync.Mutex
	topics         map[string]map[*subscriber]struct{}
	bufferSize     int
	originPatterns []string
	logger         *slog.Logger
}

func NewHub(originPatterns []string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		topics:         make(map[string]map[*subscriber]struct{}),
		bufferSize:     16,
		originPatterns: originPatterns,
		logger:         logger.With("component", "realtime"),
	}
}

func (h *Hub) Broadcast(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.topics[topic] {
		select {
		case s.msgs <- payload:
		default:
			h.logger.Warn("subscriber too slow, message dropped", "topic", topic)
		}
	}
}

// Subscribers reports how many connections listen on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

// Handler upgrades the request and subscribes the connection to topic. Text
// messages received from the client are broadcast back to the whole topic.
func (h *Hub) Handler(topic string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: h.originPatterns,
		})
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.CloseNow()

		err = h.serve(r.Context(), conn, topic)
		switch {
		case err == nil,
			errors.Is(err, context.Canceled),
			websocket.CloseStatus(err) == websocket.StatusNormalClosure,
			websocket.CloseStatus(err) == websocket.StatusGoingAway:
			h.logger.Debug("websocket closed", "topic", topic)
		default:
			h.logger.Warn("websocket closed with error", "topic", topic, "error", err)
		}
	})
}

func (h *Hub) serve(ctx context.Context, conn *websocket.Conn, topic string) error {
	s := &subscriber{msgs: make(chan []byte, h.bufferSize)}
	h.add(topic, s)
	defer h.remove(topic, s)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readErr := make(chan error, 1)
	go func() {
		readErr <- h.readLoop(ctx, conn, topic)
		cancel()
	}()

	for {
		select {
		case msg := <-s.msgs:
			if err := write(ctx, conn, msg); err != nil {
				return err
			}
		case <-ctx.Done():
			select {
			case err := <-readErr:
				return err
			default:
				return ctx.Err()
			}
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, conn *websocket.Conn, topic string) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			continue
		}
		h.Broadcast(topic, data)
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}

func (h *Hub) add(topic string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*subscriber]struct{})
	}
	h.topics[topic][s] = struct{}{}
}

func (h *Hub) remove(topic string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.topics[topic], s)
	if len(h.topics[topic]) == 0 {
		delete(h.topics, topic)
	}
}
