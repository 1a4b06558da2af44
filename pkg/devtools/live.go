package devtools

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// Event is one runtime occurrence streamed to /live clients.
type Event struct {
	Time   time.Time `json:"time"`
	Type   string    `json:"type"`
	Kind   string    `json:"kind,omitempty"`
	Node   string    `json:"node,omitempty"`
	Queued int       `json:"queued,omitempty"`
	Micros int64     `json:"micros,omitempty"`
}

// recorder adapts runtime instrument hooks into hub broadcasts.
type recorder struct {
	hub *hub
}

func (r *recorder) NodeCreated(kind ripple.Kind) {
	r.hub.broadcast(Event{Time: time.Now(), Type: "node_created", Kind: kind.String()})
}

func (r *recorder) NodeDisposed(kind ripple.Kind) {
	r.hub.broadcast(Event{Time: time.Now(), Type: "node_disposed", Kind: kind.String()})
}

func (r *recorder) Recompute(kind ripple.Kind, took time.Duration) {
	r.hub.broadcast(Event{Time: time.Now(), Type: "recompute", Kind: kind.String(), Micros: took.Microseconds()})
}

func (r *recorder) FlushPass(queued int, took time.Duration) {
	r.hub.broadcast(Event{Time: time.Now(), Type: "flush", Queued: queued, Micros: took.Microseconds()})
}

func (r *recorder) CycleDetected(node string) {
	r.hub.broadcast(Event{Time: time.Now(), Type: "cycle", Node: node})
}

func (r *recorder) ComputeError(node string) {
	r.hub.broadcast(Event{Time: time.Now(), Type: "compute_error", Node: node})
}

var _ ripple.Instruments = (*recorder)(nil)

const (
	writeTimeout   = 10 * time.Second
	pongTimeout    = 60 * time.Second
	pingInterval   = 30 * time.Second
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The inspector is a development tool; it is expected to be reached
	// from arbitrary local origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub tracks connected live-stream clients and fans events out to them.
// Broadcasting never blocks the runtime thread: a client that cannot keep
// up has events dropped, counted, and reported on its next delivery.
type hub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*liveClient]bool
	closed  bool
}

type liveClient struct {
	conn    *websocket.Conn
	send    chan Event
	dropped atomic.Int64
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		logger:  logger,
		clients: make(map[*liveClient]bool),
	}
}

func (h *hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			c.dropped.Add(1)
		}
	}
}

func (h *hub) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("live stream upgrade failed", "error", err)
		return
	}

	c := &liveClient{
		conn: conn,
		send: make(chan Event, sendBufferSize),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = true
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)
}

// readLoop discards inbound frames; it exists to process control messages
// and to notice the peer going away.
func (h *hub) readLoop(c *liveClient) {
	defer h.drop(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				h.logger.Warn("live stream read error", "error", err)
			}
			return
		}
	}
}

func (h *hub) writeLoop(c *liveClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.drop(c)
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
			if n := c.dropped.Swap(0); n > 0 {
				h.logger.Warn("live stream client lagging", "dropped", n)
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *hub) drop(c *liveClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()
	c.conn.Close()
}

func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*liveClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*liveClient]bool)
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}
