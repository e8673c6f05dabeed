package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/A01753312/correojoseph/internal/mail"
	"github.com/A01753312/correojoseph/internal/session"
)

// MailServiceFactory builds a mail service from a session's credentials.
// Handlers take the factory rather than a concrete client so tests can
// substitute mocks.
type MailServiceFactory func(ctx context.Context, token *oauth2.Token) (mail.Service, error)

// maxUploadBytes caps upload size (table file plus attachments).
const maxUploadBytes = 32 << 20

// sessionFromRequest extracts the session and writes a 401 when it is
// missing. Shared by every handler.
func sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := GetSessionFromContext(r.Context())
	if !ok {
		log.Println("API: No session in context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return sess, true
}

// mailServiceForSession resolves credentials and builds the provider client,
// writing the appropriate HTTP error on failure.
func mailServiceForSession(ctx context.Context, w http.ResponseWriter, sess *session.Session, factory MailServiceFactory) (mail.Service, bool) {
	token, err := sess.Auth.Credentials()
	if err != nil {
		http.Error(w, "Not authenticated with the mail provider", http.StatusUnauthorized)
		return nil, false
	}

	svc, err := factory(ctx, token)
	if err != nil {
		log.Printf("API: Failed to create mail service: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}

	return svc, true
}

// writeJSON encodes to a buffer first to prevent partial writes.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("API: Failed to encode response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("API: Failed to write response: %v", err)
	}
}

// decodeJSON reads a request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Printf("API: Failed to decode request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// readFormFile reads one multipart file fully into memory.
func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return io.ReadAll(f)
}
