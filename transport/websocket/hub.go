package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Time allowed for the service to apply one inbound action.
	actionTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message represents an outbound WebSocket message
type Message struct {
	SessionID string              `json:"session_id"`
	GameState *engine.GameState   `json:"game_state,omitempty"`
	Event     string              `json:"event,omitempty"`
	Events    []service.GameEvent `json:"events,omitempty"`
	Data      interface{}         `json:"data,omitempty"`
}

// Request is an inbound frame from a client: one action for the client's session
type Request struct {
	Action string `json:"action"`
	Reset  bool   `json:"reset,omitempty"`
}

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// envelope addresses an encoded message to one session, or to a single client when
// client is set
type envelope struct {
	sessionID string
	client    *Client
	data      []byte
}

// Hub maintains the set of active clients and broadcasts messages. The Run loop is
// the only writer of the client sets.
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool
	mu       sync.RWMutex

	// Outbound messages for clients
	broadcast chan envelope

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// service applies inbound actions; nil makes the hub output-only
	service service.GameService
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan envelope, engine.WebSocketBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetService routes inbound client actions to svc
func (h *Hub) SetService(svc service.GameService) {
	h.service = svc
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

// ServeWS upgrades the request and attaches the connection to a session. When a
// service is set the client first receives the current state.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, engine.WebSocketBufferSize),
		sessionID: sessionID,
	}

	if h.service != nil {
		if state, err := h.service.GetGameState(r.Context(), sessionID); err == nil {
			if data, err := encode(&Message{SessionID: sessionID, GameState: state, Event: "state_update"}); err == nil {
				client.send <- data
			}
		}
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// ClientCount returns how many clients are watching a session
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// BroadcastToSession sends a game state update to all clients in a session.
// Sessions nobody watches are skipped without encoding.
func (h *Hub) BroadcastToSession(sessionID string, state *engine.GameState, events ...service.GameEvent) {
	h.send(&Message{
		SessionID: sessionID,
		GameState: state,
		Event:     "state_update",
		Events:    events,
	}, nil)
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.send(&Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	}, nil)
}

func (h *Hub) send(message *Message, client *Client) {
	if client == nil && h.ClientCount(message.SessionID) == 0 {
		return
	}
	data, err := encode(message)
	if err != nil {
		log.Printf("Failed to marshal WebSocket message: %v", err)
		return
	}
	h.broadcast <- envelope{sessionID: message.SessionID, client: client, data: data}
}

func encode(message *Message) ([]byte, error) {
	return json.Marshal(message)
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Printf("Client registered for session %s (total clients: %d)",
		client.sessionID, len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)

	// Clean up empty sessions
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	log.Printf("Client unregistered from session %s (remaining clients: %d)",
		client.sessionID, len(clients))
}

// deliver hands an encoded message to its recipients, dropping clients that fall behind
func (h *Hub) deliver(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[env.sessionID]
	if !ok {
		return
	}
	for client := range clients {
		if env.client != nil && client != env.client {
			continue
		}
		select {
		case client.send <- env.data:
		default:
			// Client's send channel is full, close it
			h.removeLocked(client)
		}
	}
}

// handle applies one inbound frame. Successful actions are broadcast to every
// client of the session; failures are reported to the sender only.
func (c *Client) handle(raw []byte) {
	h := c.hub
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil || req.Action == "" {
		h.send(&Message{SessionID: c.sessionID, Event: "error", Data: `expected {"action": "..."}`}, c)
		return
	}
	if h.service == nil {
		h.send(&Message{SessionID: c.sessionID, Event: "error", Data: "actions are not accepted on this connection"}, c)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	outcome, err := h.service.Act(ctx, c.sessionID, req.Action, req.Reset)
	if err != nil {
		h.send(&Message{SessionID: c.sessionID, Event: "error", Data: err.Error()}, c)
		return
	}

	log.Printf("[WS] session=%s action=%s accepted=%v", c.sessionID, outcome.Action, outcome.Accepted)
	h.BroadcastToSession(c.sessionID, outcome.GameState, outcome.Events...)
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		c.handle(message)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
