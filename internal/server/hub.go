package server

import (
	"log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/compmap/eventmap/pkg/core"
	"github.com/compmap/eventmap/pkg/streaming"
)

const (
	sendChSize     = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
)

// client is one WebSocket subscriber with a single write goroutine.
type client struct {
	conn   *ws.Conn
	sendCh chan []byte
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func newClient(conn *ws.Conn, logger *slog.Logger) *client {
	return &client{
		conn:   conn,
		sendCh: make(chan []byte, sendChSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// send queues data for the write loop. It reports false when the queue is
// full or the client is closed.
func (c *client) send(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.sendCh <- data:
		return true
	default:
		return false
	}
}

// writeLoop drains sendCh and keeps the connection alive with pings.
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("WebSocket SetWriteDeadline error", "error", err)
				c.close()
				return
			}
			if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
				c.logger.Debug("WebSocket write error", "error", err)
				c.close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(ws.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.close()
				return
			}
		}
	}
}

// close stops the write loop, sends a close frame and closes the
// connection. Safe to call more than once.
func (c *client) close() {
	if c.stop() {
		c.closeConn()
	}
}

// stop marks the client closed without touching the socket. It reports
// whether this call was the one that closed it.
func (c *client) stop() bool {
	stopped := false
	c.once.Do(func() {
		close(c.done)
		stopped = true
	})
	return stopped
}

// closeConn may block for up to writeWait on a stalled peer.
func (c *client) closeConn() {
	_ = c.conn.WriteControl(
		ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	_ = c.conn.Close()
}

// Hub fans deltas out to every connected WebSocket client. A client that
// cannot keep up is disconnected.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) remove(c *client) {
	if h.detach(c) {
		c.close()
	}
}

func (h *Hub) detach(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	return ok
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends delta to every client.
func (h *Hub) Broadcast(delta core.Delta) {
	data, err := streaming.Encode(streaming.TypeDelta, delta)
	if err != nil {
		h.logger.Error("Failed to encode delta", "error", err)
		return
	}
	h.broadcast(data)
}

func (h *Hub) broadcast(data []byte) {
	var slow []*client

	h.mu.RLock()
	for c := range h.clients {
		if !c.send(data) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	// Broadcast runs under the app lock, so the socket is torn down in the
	// background.
	for _, c := range slow {
		if !h.detach(c) {
			continue
		}
		h.logger.Warn("Dropping slow WebSocket subscriber")
		if c.stop() {
			go c.closeConn()
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}
