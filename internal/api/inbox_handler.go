package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/A01753312/correojoseph/internal/mail"
	"github.com/A01753312/correojoseph/internal/models"
)

// metadataHeaderNames are the headers shown in the inbox view.
var metadataHeaderNames = []string{"From", "Subject", "Date"}

// InboxHandler serves recent inbox metadata and message previews.
type InboxHandler struct {
	mailFactory  MailServiceFactory
	defaultLimit int
}

// NewInboxHandler creates a new InboxHandler instance.
func NewInboxHandler(mailFactory MailServiceFactory, defaultLimit int) *InboxHandler {
	return &InboxHandler{
		mailFactory:  mailFactory,
		defaultLimit: defaultLimit,
	}
}

// List returns the newest messages with their From/Subject/Date headers.
func (h *InboxHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	svc, ok := mailServiceForSession(ctx, w, sess, h.mailFactory)
	if !ok {
		return
	}

	limit := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	refs, err := svc.ListRecent(ctx, int64(limit))
	if err != nil {
		log.Printf("InboxHandler: Failed to list messages: %v", err)
		http.Error(w, "Failed to list inbox: "+err.Error(), http.StatusBadGateway)
		return
	}

	response := models.InboxResponse{Messages: make([]models.InboxMessage, 0, len(refs))}
	for _, ref := range refs {
		headers, err := svc.GetMetadata(ctx, ref.ID, metadataHeaderNames)
		if err != nil {
			log.Printf("InboxHandler: Failed to fetch metadata for %s: %v", ref.ID, err)
			// One unreadable message should not hide the rest of the inbox.
			response.Messages = append(response.Messages, models.InboxMessage{ID: ref.ID})
			continue
		}
		response.Messages = append(response.Messages, models.InboxMessage{
			ID:      ref.ID,
			Headers: headerMap(headers),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// Get returns the metadata headers of one message.
func (h *InboxHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "message id is required", http.StatusBadRequest)
		return
	}

	svc, ok := mailServiceForSession(ctx, w, sess, h.mailFactory)
	if !ok {
		return
	}

	headers, err := svc.GetMetadata(ctx, id, metadataHeaderNames)
	if err != nil {
		log.Printf("InboxHandler: Failed to fetch metadata for %s: %v", id, err)
		http.Error(w, "Failed to fetch message: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, models.InboxMessage{ID: id, Headers: headerMap(headers)})
}

// Preview fetches the raw message and returns a parsed summary.
func (h *InboxHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "message id is required", http.StatusBadRequest)
		return
	}

	svc, ok := mailServiceForSession(ctx, w, sess, h.mailFactory)
	if !ok {
		return
	}

	raw, err := svc.GetRaw(ctx, id)
	if err != nil {
		log.Printf("InboxHandler: Failed to fetch raw message %s: %v", id, err)
		http.Error(w, "Failed to fetch message: "+err.Error(), http.StatusBadGateway)
		return
	}

	preview, err := mail.ParsePreview(raw)
	if err != nil {
		log.Printf("InboxHandler: Failed to parse message %s: %v", id, err)
		http.Error(w, "Failed to parse message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.MessagePreviewResponse{
		Subject:     preview.Subject,
		From:        preview.From,
		Snippet:     preview.Snippet,
		Attachments: preview.AttachmentNames,
	})
}

func headerMap(headers []mail.Header) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.Name] = h.Value
	}
	return m
}
