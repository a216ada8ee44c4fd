package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"onefight/game"
)

// Spectator connection timing. pongWait is how long a spectator may stay
// silent; pings go out well inside it.
var (
	writeWait = 5 * time.Second
	pongWait  = 60 * time.Second
)

// ClientConn is a write-only spectator connection.
type ClientConn struct {
	ws       *websocket.Conn
	send     chan []byte
	once     sync.Once
	pongWait time.Duration
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:       ws,
		send:     make(chan []byte, 64),
		pongWait: pongWait,
	}
}

// Enqueue queues a frame without blocking; a slow spectator misses frames.
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
	}
}

// Close ends the write pump and the connection.
func (c *ClientConn) Close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

func (c *ClientConn) writePump() {
	ticker := time.NewTicker(c.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			// spectators never write, so the ping keeps their read deadline alive
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump only keeps the connection alive; spectators cannot send input.
func (c *ClientConn) readPump(h *Hub) {
	defer h.remove(c)
	c.ws.SetReadLimit(1 << 10)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(c.pongWait)) })
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub fans match frames out to websocket spectators. It implements
// game.Spectator.
type Hub struct {
	mu      sync.Mutex
	clients map[*ClientConn]struct{}
	limiter *rate.Limiter
	last    []byte
}

// NewHub creates a hub that pushes at most fps frames per second. Frames
// announcing an elimination or a winner are always sent.
func NewHub(fps float64) *Hub {
	limit := rate.Inf
	if fps > 0 {
		limit = rate.Limit(fps)
	}
	return &Hub{
		clients: make(map[*ClientConn]struct{}),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Publish encodes fr and queues it for every spectator.
func (h *Hub) Publish(fr game.Frame) {
	important := fr.Winner != 0 || len(fr.Eliminated) > 0
	if !h.limiter.Allow() && !important {
		return
	}
	b, err := json.Marshal(struct {
		Type string `json:"type"`
		game.Frame
	}{Type: "frame", Frame: fr})
	if err != nil {
		Log.Warnf("spectator frame: %v", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = b
	for c := range h.clients {
		c.Enqueue(b)
	}
}

// Spectators is the number of connected spectators.
func (h *Hub) Spectators() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *ClientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.Enqueue(h.last)
	}
}

func (h *Hub) remove(c *ClientConn) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.Close()
	}
}

// Close disconnects every spectator.
func (h *Hub) Close() error {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*ClientConn]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.Close()
	}
	return nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// spectators are read-only
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades a spectator connection.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("spectator upgrade: %v", err)
		return
	}
	c := NewClientConn(ws)
	h.add(c)
	Log.Infof("spectator connected from %s", r.RemoteAddr)
	go c.writePump()
	go c.readPump(h)
}
