package api

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	ws "github.com/A01753312/correojoseph/internal/websocket"
)

// WebSocketHandler serves the progress stream of bulk dispatch runs.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler instance.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The server is expected to sit behind a reverse proxy in a trusted
		// environment.
		return true
	},
}

// Handle upgrades the connection and registers it under the session, so
// dispatch runs started from the same browser can stream progress to it.
// The session is resolved from the cookie, or from the "session" query
// parameter for clients that cannot send cookies on the handshake.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocketHandler: Upgrade failed: %v", err)
		return
	}

	client := h.hub.Register(sess.ID, conn)
	if client == nil {
		return
	}

	// Drain (and discard) client frames so pings are answered and closes
	// are noticed; the stream is server-to-client only.
	go func() {
		defer h.hub.Unregister(sess.ID, client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
