// Package websocket pushes bulk-dispatch progress to the browser session
// that started the run.
package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// ProgressFrame is one progress update of a running bulk dispatch.
type ProgressFrame struct {
	BatchID   string `json:"batch_id"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Sent      int    `json:"sent"`
	Failed    int    `json:"failed"`
	Done      bool   `json:"done"`
}

// Client wraps one WebSocket connection. writeMu serializes writes: two
// dispatch runs in two tabs of the same session broadcast concurrently, and
// the underlying connection does not tolerate concurrent writers.
type Client struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

func (c *Client) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks the open connections of each browser session. A session may
// hold several connections (multiple tabs).
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]struct{} // session ID -> set of clients
	maxPerUser int
}

// NewHub creates a Hub with a per-session connection limit.
func NewHub(maxPerSession int) *Hub {
	if maxPerSession <= 0 {
		maxPerSession = 4
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		maxPerUser: maxPerSession,
	}
}

// Register adds a connection for the session. When the per-session limit is
// exceeded the new connection is closed and nil is returned.
func (h *Hub) Register(sessionID string, conn *websocket.Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessionClients, ok := h.clients[sessionID]
	if !ok {
		sessionClients = make(map[*Client]struct{})
		h.clients[sessionID] = sessionClients
	}

	if len(sessionClients) >= h.maxPerUser {
		log.Printf("websocket: session %s exceeded max connections (%d), closing new connection", sessionID, h.maxPerUser)
		_ = conn.Close()
		return nil
	}

	client := &Client{conn: conn}
	sessionClients[client] = struct{}{}
	return client
}

// Unregister removes a client from the session and closes its connection.
func (h *Hub) Unregister(sessionID string, client *Client) {
	if client == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sessionClients, ok := h.clients[sessionID]
	if ok {
		delete(sessionClients, client)
		if len(sessionClients) == 0 {
			delete(h.clients, sessionID)
		}
	}

	_ = client.conn.Close()
}

// Broadcast sends a progress frame to every open connection of the session.
// Write failures drop the offending client; a session with no connections is
// a no-op (progress still lands in the final dispatch response).
func (h *Hub) Broadcast(sessionID string, frame ProgressFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("websocket: failed to marshal progress frame: %v", err)
		return
	}

	h.mu.RLock()
	sessionClients := make([]*Client, 0, len(h.clients[sessionID]))
	for client := range h.clients[sessionID] {
		sessionClients = append(sessionClients, client)
	}
	h.mu.RUnlock()

	for _, client := range sessionClients {
		if err := client.write(payload); err != nil {
			log.Printf("websocket: failed to write to session %s: %v", sessionID, err)
			go h.Unregister(sessionID, client)
		}
	}
}

// ActiveConnections returns the number of open connections for a session.
func (h *Hub) ActiveConnections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
