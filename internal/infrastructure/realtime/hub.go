// Package realtime pushes order notifications to sellers over websockets.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Hub tracks websocket connections per seller
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.RWMutex
	clients map[uuid.UUID]map[*client]struct{}
	closed  bool
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithAllowedOrigins restricts the Origin header of upgrade requests. An
// empty list or "*" accepts any origin.
func WithAllowedOrigins(origins []string) HubOption {
	return func(h *Hub) {
		allowed := make(map[string]bool, len(origins))
		for _, o := range origins {
			if o == "*" {
				return
			}
			allowed[o] = true
		}
		if len(allowed) == 0 {
			return
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		}
	}
}

// NewHub creates a Hub
func NewHub(logger *zap.Logger, opts ...HubOption) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger.Named("realtime"),
		clients: make(map[uuid.UUID]map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type client struct {
	hub      *Hub
	sellerID uuid.UUID
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	once     sync.Once
}

// Serve upgrades the request and streams notifications for sellerID until
// the client disconnects or the hub is closed.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sellerID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{hub: h, sellerID: sellerID, conn: conn, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(writeWait))
		return conn.Close()
	}
	h.logger.Debug("Seller connected", zap.String("seller_id", sellerID.String()))

	go c.writePump()
	c.readPump()
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.clients[c.sellerID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.sellerID] = set
	}
	set[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if set, ok := h.clients[c.sellerID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.sellerID)
		}
	}
	h.mu.Unlock()
	c.close()
}

// NotifySeller sends message as JSON to every connection of sellerID and
// returns how many connections it was queued for. Connections whose buffer
// is full are dropped.
func (h *Hub) NotifySeller(sellerID uuid.UUID, message any) int {
	payload, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to encode notification", zap.Error(err))
		return 0
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[sellerID]))
	for c := range h.clients[sellerID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		select {
		case <-c.done:
		case c.send <- payload:
			delivered++
		default:
			h.logger.Warn("Dropping slow websocket client", zap.String("seller_id", sellerID.String()))
			go h.unregister(c)
		}
	}
	return delivered
}

// ConnectionCount returns the number of open connections for sellerID
func (h *Hub) ConnectionCount(sellerID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sellerID])
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	all := make([]*client, 0)
	for _, set := range h.clients {
		for c := range set {
			all = append(all, c)
		}
	}
	h.clients = make(map[uuid.UUID]map[*client]struct{})
	h.mu.Unlock()

	for _, c := range all {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.close()
	}
	return nil
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("Websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
