package api

import (
	"log"
	"net/http"

	"github.com/A01753312/correojoseph/internal/auth"
	"github.com/A01753312/correojoseph/internal/models"
)

// AuthHandler handles the delegated-authorization endpoints.
type AuthHandler struct {
	provider auth.Provider
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(provider auth.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// GetAuthURL returns the provider consent URL. The session id doubles as the
// OAuth state parameter so the callback can be tied back to this session.
func (h *AuthHandler) GetAuthURL(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	url := h.provider.AuthorizationURL(sess.ID)
	if url == "" {
		log.Println("AuthHandler: Provider returned an empty authorization URL")
		http.Error(w, "Failed to build authorization URL", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthURLResponse{URL: url})
}

// Callback receives the authorization code and exchanges it for credentials.
// On failure the session returns to the unset state and the provider's
// message is surfaced to the user.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	if errMsg := query.Get("error"); errMsg != "" {
		log.Printf("AuthHandler: Provider returned error: %s", errMsg)
		http.Error(w, "Authorization refused: "+errMsg, http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	if state := query.Get("state"); state != sess.ID {
		log.Println("AuthHandler: State mismatch on callback")
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	if err := sess.Auth.Exchange(r.Context(), h.provider, code); err != nil {
		log.Printf("AuthHandler: Code exchange failed: %v", err)
		http.Error(w, "Authorization failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthStatusResponse{
		Authenticated: true,
		State:         sess.Auth.State().String(),
	})
}

// Logout discards the session's credentials and cached batches.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	sess.Auth.Logout()
	sess.DropBatches()

	writeJSON(w, http.StatusOK, models.AuthStatusResponse{
		Authenticated: false,
		State:         sess.Auth.State().String(),
	})
}

// GetAuthStatus reports whether the session holds provider credentials.
func (h *AuthHandler) GetAuthStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, models.AuthStatusResponse{
		Authenticated: sess.Auth.Authenticated(),
		State:         sess.Auth.State().String(),
	})
}
