// Package hub fans binary notification frames out to every connected
// spectator socket.
package hub

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// sendBuffer bounds how far a single slow connection can lag behind
// Broadcast before it's dropped, so one stalled client can't back up
// memory for every frame the rest of the grid generates.
const sendBuffer = 64

// conn is one registered connection: a raw socket plus the buffered
// channel its dedicated writer goroutine drains.
type conn struct {
	ws        *websocket.Conn
	out       chan []byte
	closeOnce sync.Once
}

// closeChan closes out at most once, so tearing the same connection down
// a second time cannot panic.
func (c *conn) closeChan() {
	c.closeOnce.Do(func() { close(c.out) })
}

// Hub owns the set of live connections and exposes Broadcast as the only
// way to reach them. Safe for concurrent use.
type Hub struct {
	mu    sync.Mutex
	conns map[*conn]struct{}
}

// New returns an empty Hub.
func New() *Hub {
	return &Hub{conns: make(map[*conn]struct{})}
}

// Register adds ws to the broadcast set and starts its writer goroutine.
// The caller owns ws's lifecycle up to this call; afterward the hub reads
// ws.Close() errors only through the writer goroutine's own cleanup.
func (h *Hub) Register(ws *websocket.Conn) {
	c := &conn{ws: ws, out: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
}

// writeLoop is the single writer goroutine for one connection: every
// frame that reaches c.out is written in order, so concurrent calls to
// Broadcast never interleave writes on the same socket.
func (h *Hub) writeLoop(c *conn) {
	defer h.remove(c)
	defer c.ws.Close()

	for frame := range c.out {
		if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			log.Printf("hub: write failed, dropping connection: %v", err)
			return
		}
	}
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// Broadcast enqueues frame for delivery to every currently registered
// connection. A connection whose outbound buffer is full is dropped
// rather than allowed to stall the broadcast for everyone else.
func (h *Hub) Broadcast(frame []byte) {
	// The mutex is held while enqueueing so no concurrent Broadcast can
	// close a channel this one is about to send on; the sends never block.
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.conns {
		select {
		case c.out <- frame:
		default:
			log.Printf("hub: connection backlog full, closing")
			delete(h.conns, c)
			c.closeChan()
		}
	}
}

// Count returns the number of currently registered connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
