package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/A01753312/correojoseph/internal/mail"
	"github.com/A01753312/correojoseph/internal/models"
	"github.com/A01753312/correojoseph/internal/session"
	"github.com/A01753312/correojoseph/internal/websocket"
)

// mockMailService records sends and serves canned inbox data, so handler
// tests never talk to the real provider.
type mockMailService struct {
	mu      sync.Mutex
	sent    [][]byte
	sendErr error

	refs    []mail.MessageRef
	listErr error

	metadata map[string][]mail.Header
	metaErr  error

	raw    map[string][]byte
	rawErr error
}

func (m *mockMailService) Send(ctx context.Context, raw []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.sent = append(m.sent, raw)
	return fmt.Sprintf("msg-%d", len(m.sent)), nil
}

func (m *mockMailService) ListRecent(ctx context.Context, max int64) ([]mail.MessageRef, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if int64(len(m.refs)) > max {
		return m.refs[:max], nil
	}
	return m.refs, nil
}

func (m *mockMailService) GetMetadata(ctx context.Context, id string, headerNames []string) ([]mail.Header, error) {
	if m.metaErr != nil {
		return nil, m.metaErr
	}
	headers, ok := m.metadata[id]
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	return headers, nil
}

func (m *mockMailService) GetRaw(ctx context.Context, id string) ([]byte, error) {
	if m.rawErr != nil {
		return nil, m.rawErr
	}
	raw, ok := m.raw[id]
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	return raw, nil
}

func (m *mockMailService) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func mockFactory(svc mail.Service) MailServiceFactory {
	return func(ctx context.Context, token *oauth2.Token) (mail.Service, error) {
		return svc, nil
	}
}

// fakeProvider satisfies auth.Provider without any network traffic.
type fakeProvider struct {
	exchangeErr error
	codes       []string
}

func (p *fakeProvider) AuthorizationURL(state string) string {
	return "https://auth.example.com/consent?state=" + state
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	p.codes = append(p.codes, code)
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return &oauth2.Token{AccessToken: "token-" + code}, nil
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	return session.NewStore().New()
}

func authenticateSession(t *testing.T, sess *session.Session) {
	t.Helper()
	err := sess.Auth.Exchange(context.Background(), &fakeProvider{}, "test-code")
	require.NoError(t, err)
}

// requestWithSession builds a request whose context already carries the
// session, the way WithSession would have left it.
func requestWithSession(method, target string, body io.Reader, sess *session.Session) *http.Request {
	r := httptest.NewRequest(method, target, body)
	return r.WithContext(context.WithValue(r.Context(), sessionKey, sess))
}

func jsonRequest(t *testing.T, method, target string, payload any, sess *session.Session) *http.Request {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	r := requestWithSession(method, target, bytes.NewReader(data), sess)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// multipartUpload builds the body of a batch upload request.
func multipartUpload(t *testing.T, mode, tableName string, tableData []byte, attachments map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	require.NoError(t, w.WriteField("mode", mode))

	fw, err := w.CreateFormFile("table", tableName)
	require.NoError(t, err)
	_, err = fw.Write(tableData)
	require.NoError(t, err)

	for name, data := range attachments {
		aw, err := w.CreateFormFile("attachments", name)
		require.NoError(t, err)
		_, err = aw.Write(data)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func newTestBatchHandler(svc mail.Service) *BatchHandler {
	return NewBatchHandler(mockFactory(svc), websocket.NewHub(4), 0)
}

// uploadBatch runs a full upload through the handler and returns the stored
// batch's description.
func uploadBatch(t *testing.T, h *BatchHandler, sess *session.Session, mode string, csv string, attachments map[string][]byte) models.BatchResponse {
	t.Helper()

	body, contentType := multipartUpload(t, mode, "contactos.csv", []byte(csv), attachments)
	r := requestWithSession(http.MethodPost, "/api/v1/batches", body, sess)
	r.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	h.Upload(w, r)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
