package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A01753312/correojoseph/internal/models"
)

func messageForm(t *testing.T, fields map[string]string, attachments map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for name, data := range attachments {
		fw, err := w.CreateFormFile("attachments", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestMessageHandler_Send(t *testing.T) {
	t.Run("assembles and sends a single message", func(t *testing.T) {
		sess := newTestSession(t)
		authenticateSession(t, sess)

		svc := &mockMailService{}
		handler := NewMessageHandler(mockFactory(svc))

		body, contentType := messageForm(t, map[string]string{
			"to":      "ana@example.com",
			"subject": "Hola",
			"body":    "Un saludo",
		}, map[string][]byte{"nota.txt": []byte("contenido")})

		r := requestWithSession(http.MethodPost, "/api/v1/messages", body, sess)
		r.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		handler.Send(w, r)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeResponse[models.SendResponse](t, w)
		assert.Equal(t, "msg-1", resp.ID)

		require.Equal(t, 1, svc.sentCount())
		raw := string(svc.sent[0])
		assert.Contains(t, raw, "To: ana@example.com")
		assert.Contains(t, raw, "Subject: Hola")
		assert.Contains(t, raw, `filename="nota.txt"`)
	})

	t.Run("rejects a missing recipient", func(t *testing.T) {
		sess := newTestSession(t)
		authenticateSession(t, sess)

		svc := &mockMailService{}
		handler := NewMessageHandler(mockFactory(svc))

		body, contentType := messageForm(t, map[string]string{"subject": "Hola"}, nil)
		r := requestWithSession(http.MethodPost, "/api/v1/messages", body, sess)
		r.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		handler.Send(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, svc.sentCount())
	})

	t.Run("surfaces a transport failure", func(t *testing.T) {
		sess := newTestSession(t)
		authenticateSession(t, sess)

		svc := &mockMailService{sendErr: errors.New("quota exceeded")}
		handler := NewMessageHandler(mockFactory(svc))

		body, contentType := messageForm(t, map[string]string{"to": "ana@example.com"}, nil)
		r := requestWithSession(http.MethodPost, "/api/v1/messages", body, sess)
		r.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		handler.Send(w, r)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "quota exceeded")
	})

	t.Run("rejects an unauthenticated session", func(t *testing.T) {
		sess := newTestSession(t)

		handler := NewMessageHandler(mockFactory(&mockMailService{}))

		body, contentType := messageForm(t, map[string]string{"to": "ana@example.com"}, nil)
		r := requestWithSession(http.MethodPost, "/api/v1/messages", body, sess)
		r.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		handler.Send(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
