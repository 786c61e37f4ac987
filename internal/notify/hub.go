package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vuongngo/reactive-forum-api/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// client is one websocket subscriber. threadID nil means every thread.
type client struct {
	conn     *websocket.Conn
	send     chan []byte
	threadID *uuid.UUID
	userID   uuid.UUID
}

func (c *client) wants(threadID uuid.UUID) bool {
	return c.threadID == nil || *c.threadID == threadID
}

// Hub keeps the websocket subscribers of this instance and writes events to them
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a hub. checkOrigin may be nil to accept any origin.
func NewHub(logger *zap.Logger, m *metrics.Metrics, checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger:  logger,
		metrics: m,
		clients: make(map[*client]struct{}),
	}
}

// Publish writes the event to local subscribers
func (h *Hub) Publish(_ context.Context, event Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	h.Broadcast(event.ThreadID, data)
	return nil
}

// Broadcast sends an encoded event to every subscriber interested in threadID.
// Subscribers whose buffer is full are disconnected.
func (h *Hub) Broadcast(threadID uuid.UUID, data []byte) {
	var slow []*client

	h.mu.RLock()
	for c := range h.clients {
		if !c.wants(threadID) {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Dropping slow websocket client", zap.String("user_id", c.userID.String()))
		h.remove(c)
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve upgrades the request and streams events until the client goes away
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID, threadID *uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		threadID: threadID,
		userID:   userID,
	}
	if !h.add(c) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		return conn.Close()
	}

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetWebsocketClients(count)
	h.logger.Debug("Websocket client registered", zap.String("user_id", c.userID.String()))
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetWebsocketClients(count)
	h.logger.Debug("Websocket client unregistered", zap.String("user_id", c.userID.String()))
}

// readPump discards client input; it only keeps the deadline fresh and notices disconnects
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("Websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every subscriber and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	h.metrics.SetWebsocketClients(0)
}
