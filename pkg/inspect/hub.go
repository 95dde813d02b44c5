package inspect

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// client is one /events subscriber. Messages are queued on send and written
// by the client's own goroutine.
type client struct {
	conn  *websocket.Conn
	send  chan []byte
	graph uint64 // 0 receives every graph
}

// hub manages WebSocket connections for the event stream.
type hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	buffer   int
	dropped  atomic.Uint64
	logger   *slog.Logger
}

func newHub(buffer int, logger *slog.Logger) *hub {
	return &hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local tooling, any origin
			},
		},
		buffer: buffer,
		logger: logger,
	}
}

// serve upgrades the request and blocks until the client disconnects.
func (h *hub) serve(w http.ResponseWriter, r *http.Request, graph uint64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("inspector upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, h.buffer), graph: graph}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

// remove unregisters c and stops its writer. Safe to call twice.
func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// broadcast queues msg for every client interested in graph. It never
// blocks: a client whose queue is full misses the message.
func (h *hub) broadcast(graph uint64, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.graph != 0 && c.graph != graph {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.dropped.Add(1)
		}
	}
}

// clientCount returns the number of connected clients.
func (h *hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// close disconnects every client.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
