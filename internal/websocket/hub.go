package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"ecopark/internal/access"
	"ecopark/internal/auth"
	"ecopark/internal/logger"
	"ecopark/internal/notify"
	"ecopark/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The token query parameter is the gate.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ErrHubBusy is returned by Publish when the broadcast queue is full.
var ErrHubBusy = errors.New("websocket hub is busy, event dropped")

// Client represents a single connected WebSocket client
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
	Role string
	// UserID is the token subject. Roles limited to their own submissions
	// only receive events for requests this user made.
	UserID string
}

type message struct {
	kind        string
	requestedBy string
	payload     []byte
}

func (c *Client) wants(msg message) bool {
	if !access.Can(c.Role, msg.kind, access.View) {
		return false
	}
	return !access.OwnSubmissionsOnly(c.Role) || msg.requestedBy == c.UserID
}

// Hub maintains the set of active clients and fans request events out to the
// clients whose role may view the event's kind.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
}

// NewHub initializes a new WS Hub instance
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the dispatch loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Log.WithField("role", client.Role).Debug("websocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				logger.Log.WithField("role", client.Role).Debug("websocket client disconnected")
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.wants(msg) {
					continue
				}
				select {
				case client.Send <- msg.payload:
				default:
					// Slow consumer.
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish implements notify.Publisher. It never blocks the caller.
func (h *Hub) Publish(_ context.Context, ev notify.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- message{kind: ev.Kind, requestedBy: ev.RequestedBy, payload: payload}:
		return nil
	default:
		return ErrHubBusy
	}
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		w, err := c.Conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)

		n := len(c.Send)
		for i := 0; i < n; i++ {
			_, _ = w.Write([]byte{'\n'})
			_, _ = w.Write(<-c.Send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump keeps the connection alive and detects disconnects
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		_ = c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Warn("websocket read failed")
			}
			break
		}
	}
}

// ServeWs upgrades an authenticated request. Browsers cannot set headers on
// websocket requests, so the token travels in the query string.
func ServeWs(hub *Hub, c *gin.Context, tokens *auth.TokenManager, sessions session.Store) {
	tokenString := c.Query("token")
	if tokenString == "" {
		logger.Log.Debug("websocket connection rejected: missing token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, err := tokens.Parse(tokenString)
	if err != nil {
		logger.Log.WithError(err).Debug("websocket connection rejected: invalid token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID); err != nil || revoked {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if len(access.VisibleKinds(claims.Role)) == 0 {
		logger.Log.WithField("role", claims.Role).Debug("websocket connection rejected: nothing visible")
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 256), Role: claims.Role, UserID: claims.Subject}
	select {
	case hub.register <- client:
	case <-hub.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
