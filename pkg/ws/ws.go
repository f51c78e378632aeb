// Package ws pushes server events to a user's open browser tabs over
// WebSocket (gorilla/websocket). Connections are grouped by user ID.
//
//	hub := ws.NewHub()
//	go hub.Run(ctx)
//
//	r.Get("/api/builds/live", "builds.live", ctx.Wrap(func(c *ctx.Context) {
//	    uid, _ := c.UserID()
//	    _ = ws.Upgrade(c.W, c.R, hub, uid)
//	}))
//
//	hub.Publish(userID, payload)
package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// SetCheckOrigin replaces the default same-origin check.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// client is one connection. Clients only listen; anything they send is
// read and dropped so control frames keep flowing.
type client struct {
	hub    *Hub
	userID uint
	conn   *websocket.Conn
	send   chan []byte
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws: unexpected close", "user_id", c.userID, "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type delivery struct {
	userID uint
	data   []byte
}

// Hub owns every live connection. All map writes happen on the Run loop.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*client]bool

	register   chan *client
	unregister chan *client
	publish    chan delivery
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		publish:    make(chan delivery, 256),
		done:       make(chan struct{}),
	}
}

// Run is the hub loop. It closes every connection when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]bool)
			}
			h.clients[c.userID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.drop(c)

		case d := <-h.publish:
			h.mu.RLock()
			var slow []*client
			for c := range h.clients[d.userID] {
				select {
				case c.send <- d.data:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.drop(c)
			}

		case <-ctx.Done():
			h.mu.Lock()
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[uint]map[*client]bool)
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.userID]
	if !set[c] {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// Publish queues data for every connection of userID. It never blocks; when
// the hub is backed up the message is dropped.
func (h *Hub) Publish(userID uint, data []byte) {
	select {
	case h.publish <- delivery{userID: userID, data: data}:
	default:
		logger.Warn("ws: publish queue full, dropping message", "user_id", userID)
	}
}

// ClientCount returns how many connections userID has open.
func (h *Hub) ClientCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Upgrade switches the request to a WebSocket registered under userID. The
// hub's Run loop must be running.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, userID uint) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("ws: upgrade: %w", err)
	}
	c := &client{hub: hub, userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}

	select {
	case hub.register <- c:
	case <-hub.done:
		conn.Close()
		return fmt.Errorf("ws: hub stopped")
	case <-r.Context().Done():
		conn.Close()
		return r.Context().Err()
	}
	go c.writePump()
	go c.readPump()
	return nil
}
