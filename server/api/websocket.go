// Package api provides WebSocket support for live screen updates
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/securescan/securescan/pkg/logger"
	"github.com/securescan/securescan/pkg/screen"
)

const (
	pingInterval = 30 * time.Second
	readTimeout  = 60 * time.Second
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`              // state, pong; clients send ping
	Payload interface{} `json:"payload,omitempty"` // screen.View for state messages
}

// Client represents a connected WebSocket client
type Client struct {
	conn      *websocket.Conn
	sessionID string
	done      chan struct{}
	pong      chan struct{}
	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// WSHub tracks connections per session so they can be closed with it
type WSHub struct {
	mu      sync.Mutex
	clients map[string]map[*Client]bool
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{clients: make(map[string]map[*Client]bool)}
}

func (h *WSHub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.sessionID] == nil {
		h.clients[c.sessionID] = make(map[*Client]bool)
	}
	h.clients[c.sessionID][c] = true
	logger.Debug("websocket client connected: session=%s", c.sessionID)
}

func (h *WSHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.sessionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.sessionID)
		}
	}
	logger.Debug("websocket client disconnected: session=%s", c.sessionID)
}

// CloseSession disconnects every client of a session
func (h *WSHub) CloseSession(sessionID string) {
	h.mu.Lock()
	set := h.clients[sessionID]
	delete(h.clients, sessionID)
	h.mu.Unlock()

	for c := range set {
		c.close()
	}
}

// CloseAll disconnects every client
func (h *WSHub) CloseAll() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[string]map[*Client]bool)
	h.mu.Unlock()

	for _, set := range all {
		for c := range set {
			c.close()
		}
	}
}

// HandleWebSocket streams the session's view on every state change
func (s *Server) HandleWebSocket(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return sessionNotFound(c)
	}

	// subscribe first so the client's first message is the state at connect time
	updates, unsubscribe := sess.Screen.Subscribe()

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		unsubscribe()
		logger.Warn("websocket upgrade failed: %v", err)
		return nil
	}

	client := &Client{
		conn:      conn,
		sessionID: sess.ID,
		done:      make(chan struct{}),
		pong:      make(chan struct{}, 1),
	}
	s.wsHub.register(client)

	go s.wsWritePump(client, updates, unsubscribe)
	go s.wsReadPump(client)

	return nil
}

// wsWritePump pumps screen states to the client
func (s *Server) wsWritePump(client *Client, updates <-chan screen.State, unsubscribe func()) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		unsubscribe()
		s.wsHub.unregister(client)
		_ = client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		client.conn.Close()
	}()

	for {
		select {
		case st, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(WSMessage{Type: "state", Payload: screen.Render(st)})
			if err != nil {
				logger.Error("failed to marshal ws message: %v", err)
				continue
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-client.pong:
			data, _ := json.Marshal(WSMessage{Type: "pong"})
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-client.done:
			return
		}
	}
}

// wsReadPump reads control messages from the client
func (s *Server) wsReadPump(client *Client) {
	defer client.close()

	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(readTimeout))
	client.conn.SetPongHandler(func(string) error {
		_ = client.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket error: %v", err)
			}
			return
		}
		_ = client.conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			// keeps the session from being swept
			s.sessions.Get(client.sessionID)
			// the write pump owns the connection for writes
			select {
			case client.pong <- struct{}{}:
			default:
			}
		}
	}
}

// newUpgrader builds the upgrader. A nil CheckOrigin means same-host only.
func newUpgrader(allowAllOrigins bool) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     allowOrigin(allowAllOrigins),
	}
}

func allowOrigin(allowAll bool) func(r *http.Request) bool {
	if allowAll {
		return func(*http.Request) bool { return true }
	}
	return nil
}
