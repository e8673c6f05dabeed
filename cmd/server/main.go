package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/A01753312/correojoseph/internal/api"
	"github.com/A01753312/correojoseph/internal/auth"
	"github.com/A01753312/correojoseph/internal/chat"
	"github.com/A01753312/correojoseph/internal/config"
	"github.com/A01753312/correojoseph/internal/mail"
	"github.com/A01753312/correojoseph/internal/session"
	ws "github.com/A01753312/correojoseph/internal/websocket"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	server := NewServer(cfg)

	address := ":" + cfg.Port
	log.Printf("Correo server starting on %s (environment: %s)", address, cfg.Environment)

	if err := http.ListenAndServe(address, server); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// NewServer creates and returns the HTTP handler of the Correo API server.
func NewServer(cfg *config.Config) http.Handler {
	provider := auth.NewGoogleProvider(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRedirectURL)
	store := session.NewStore()
	hub := ws.NewHub(4)
	chatDispatcher := chat.NewDispatcher()

	mailFactory := func(ctx context.Context, token *oauth2.Token) (mail.Service, error) {
		return mail.NewGmailService(ctx, provider.TokenSource(ctx, token))
	}

	defaultDelay := time.Duration(cfg.SendDelayMs) * time.Millisecond

	authHandler := api.NewAuthHandler(provider)
	batchHandler := api.NewBatchHandler(mailFactory, hub, defaultDelay)
	chatHandler := api.NewChatHandler(chatDispatcher, cfg.ChatCountryCode, batchHandler)
	inboxHandler := api.NewInboxHandler(mailFactory, cfg.InboxLimit)
	messageHandler := api.NewMessageHandler(mailFactory)
	wsHandler := api.NewWebSocketHandler(hub)

	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot)

	// Authorization flow: reachable without credentials.
	mux.Handle("GET /api/v1/auth/url", http.HandlerFunc(authHandler.GetAuthURL))
	mux.Handle("GET /api/v1/auth/callback", http.HandlerFunc(authHandler.Callback))
	mux.Handle("POST /api/v1/auth/logout", http.HandlerFunc(authHandler.Logout))
	mux.Handle("GET /api/v1/auth/status", http.HandlerFunc(authHandler.GetAuthStatus))

	// Everything below talks to the provider and requires credentials.
	mux.Handle("POST /api/v1/batches", api.RequireAuthenticated(http.HandlerFunc(batchHandler.Upload)))
	mux.Handle("POST /api/v1/batches/{id}/preview", api.RequireAuthenticated(http.HandlerFunc(batchHandler.Preview)))
	mux.Handle("POST /api/v1/batches/{id}/dispatch", api.RequireAuthenticated(http.HandlerFunc(batchHandler.Dispatch)))
	mux.Handle("POST /api/v1/batches/{id}/chat-links", api.RequireAuthenticated(http.HandlerFunc(chatHandler.Links)))
	mux.Handle("POST /api/v1/batches/{id}/chat-dispatch", api.RequireAuthenticated(http.HandlerFunc(chatHandler.Dispatch)))
	mux.Handle("POST /api/v1/messages", api.RequireAuthenticated(http.HandlerFunc(messageHandler.Send)))
	mux.Handle("GET /api/v1/inbox", api.RequireAuthenticated(http.HandlerFunc(inboxHandler.List)))
	mux.Handle("GET /api/v1/inbox/{id}", api.RequireAuthenticated(http.HandlerFunc(inboxHandler.Get)))
	mux.Handle("GET /api/v1/inbox/{id}/preview", api.RequireAuthenticated(http.HandlerFunc(inboxHandler.Preview)))

	// The progress stream authenticates through the session itself; a
	// connection without credentials simply never receives frames.
	mux.Handle("GET /api/v1/ws", http.HandlerFunc(wsHandler.Handle))

	return api.WithSession(store, mux)
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Correo API is running")
}
