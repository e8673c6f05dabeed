package api

import (
	"log"
	"net/http"

	"github.com/A01753312/correojoseph/internal/mail"
	"github.com/A01753312/correojoseph/internal/models"
)

// MessageHandler sends one-off messages outside the bulk pipeline.
type MessageHandler struct {
	mailFactory MailServiceFactory
}

// NewMessageHandler creates a new MessageHandler instance.
func NewMessageHandler(mailFactory MailServiceFactory) *MessageHandler {
	return &MessageHandler{mailFactory: mailFactory}
}

// Send assembles and sends a single message. The request is a multipart
// form with to/subject/body fields and optional attachment files.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Printf("MessageHandler: Failed to parse multipart form: %v", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	to := r.FormValue("to")
	if to == "" {
		http.Error(w, "to is required", http.StatusBadRequest)
		return
	}
	subject := r.FormValue("subject")
	body := r.FormValue("body")

	var attachments []mail.Attachment
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["attachments"] {
			data, err := readFormFile(fh)
			if err != nil {
				log.Printf("MessageHandler: Failed to read attachment %s: %v", fh.Filename, err)
				http.Error(w, "Failed to read attachment "+fh.Filename, http.StatusBadRequest)
				return
			}
			attachments = append(attachments, mail.NewAttachment(fh.Filename, data))
		}
	}

	svc, ok := mailServiceForSession(ctx, w, sess, h.mailFactory)
	if !ok {
		return
	}

	envelope := mail.Assemble(to, subject, body, attachments)
	id, err := svc.Send(ctx, mail.Encode(envelope))
	if err != nil {
		log.Printf("MessageHandler: Send failed: %v", err)
		http.Error(w, "Send failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, models.SendResponse{ID: id})
}
