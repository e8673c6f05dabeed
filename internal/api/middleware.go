package api

import (
	"context"
	"log"
	"net/http"

	"github.com/A01753312/correojoseph/internal/session"
)

type contextKey string

// sessionKey is the context key under which the request's session is stored.
const sessionKey contextKey = "session"

// SessionCookieName is the cookie that identifies a browser session.
const SessionCookieName = "correo_session"

// WithSession resolves the request's session from the session cookie,
// creating a fresh session (and setting the cookie) when none exists, and
// stores it in the request context for downstream handlers.
func WithSession(store *session.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := resolveSession(store, r)
		if sess == nil {
			sess = store.New()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveSession finds an existing session via the cookie, or via the
// "session" query parameter for WebSocket handshakes initiated from other
// origins.
func resolveSession(store *session.Store, r *http.Request) *session.Session {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if sess, ok := store.Get(cookie.Value); ok {
			return sess
		}
	}

	if id := r.URL.Query().Get("session"); id != "" {
		if sess, ok := store.Get(id); ok {
			return sess
		}
	}

	return nil
}

// GetSessionFromContext returns the session stored by WithSession.
func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	return sess, ok
}

// RequireAuthenticated gates mail and chat operations: the session must hold
// provider credentials, otherwise the request is rejected with 401.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSessionFromContext(r.Context())
		if !ok {
			log.Println("API: No session in context")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !sess.Auth.Authenticated() {
			http.Error(w, "Not authenticated with the mail provider", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
