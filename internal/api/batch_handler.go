package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/A01753312/correojoseph/internal/dispatch"
	"github.com/A01753312/correojoseph/internal/mail"
	"github.com/A01753312/correojoseph/internal/models"
	"github.com/A01753312/correojoseph/internal/session"
	"github.com/A01753312/correojoseph/internal/table"
	"github.com/A01753312/correojoseph/internal/template"
	"github.com/A01753312/correojoseph/internal/websocket"
)

// Upload modes and their required header sets.
const (
	ModeMailNames   = "mail_names"   // personalized mail: Nombre, Celular, email
	ModeMailColumns = "mail_columns" // per-row subject/message: email, asunto, mensaje
	ModeChat        = "chat"         // chat messages: Nombre, Celular
)

func schemaForMode(mode string) ([]string, bool) {
	switch mode {
	case ModeMailNames:
		return table.MailNamesSchema, true
	case ModeMailColumns:
		return table.MailColumnsSchema, true
	case ModeChat:
		return table.ChatSchema, true
	default:
		return nil, false
	}
}

// BatchHandler handles upload, preview and dispatch of bulk batches.
type BatchHandler struct {
	mailFactory  MailServiceFactory
	hub          *websocket.Hub
	defaultDelay time.Duration
}

// NewBatchHandler creates a new BatchHandler instance.
func NewBatchHandler(mailFactory MailServiceFactory, hub *websocket.Hub, defaultDelay time.Duration) *BatchHandler {
	return &BatchHandler{
		mailFactory:  mailFactory,
		hub:          hub,
		defaultDelay: defaultDelay,
	}
}

// Upload validates an uploaded table against the mode's schema and caches
// the batch (rows plus attachments, each attachment read exactly once) in
// the session.
func (h *BatchHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Printf("BatchHandler: Failed to parse multipart form: %v", err)
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}

	mode := r.FormValue("mode")
	required, ok := schemaForMode(mode)
	if !ok {
		http.Error(w, "Unknown mode (expected mail_names, mail_columns or chat)", http.StatusBadRequest)
		return
	}

	tableFiles := r.MultipartForm.File["table"]
	if len(tableFiles) == 0 {
		http.Error(w, "table file is required", http.StatusBadRequest)
		return
	}

	tableBytes, err := readFormFile(tableFiles[0])
	if err != nil {
		log.Printf("BatchHandler: Failed to read table file: %v", err)
		http.Error(w, "Failed to read table file", http.StatusBadRequest)
		return
	}

	raw, err := table.Read(tableFiles[0].Filename, tableBytes)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := table.Validate(raw, required)
	if err != nil {
		var schemaErr *table.SchemaError
		if errors.As(err, &schemaErr) {
			http.Error(w, schemaErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Attachments are read once here and shared by every row of the run.
	var attachments []mail.Attachment
	for _, fh := range r.MultipartForm.File["attachments"] {
		data, err := readFormFile(fh)
		if err != nil {
			log.Printf("BatchHandler: Failed to read attachment %s: %v", fh.Filename, err)
			http.Error(w, "Failed to read attachment "+fh.Filename, http.StatusBadRequest)
			return
		}
		attachments = append(attachments, mail.NewAttachment(fh.Filename, data))
	}

	batch := &session.Batch{
		ID:          uuid.NewString(),
		Mode:        mode,
		Columns:     table.Columns(raw),
		Rows:        rows,
		Attachments: attachments,
		CreatedAt:   time.Now(),
	}
	sess.PutBatch(batch)

	writeJSON(w, http.StatusCreated, models.BatchResponse{
		ID:              batch.ID,
		Mode:            batch.Mode,
		RowCount:        len(batch.Rows),
		Columns:         batch.Columns,
		AttachmentCount: len(batch.Attachments),
	})
}

// batchFromRequest looks up the batch addressed by the path suffix.
func batchFromRequest(w http.ResponseWriter, r *http.Request, sess *session.Session) (*session.Batch, bool) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "batch id is required", http.StatusBadRequest)
		return nil, false
	}

	batch, ok := sess.Batch(id)
	if !ok {
		http.Error(w, "Batch not found (it may have been replaced by a newer upload)", http.StatusNotFound)
		return nil, false
	}

	return batch, true
}

// templateForMode builds the dispatch template for a batch. Mode
// mail_columns takes subject and body from the sheet's own columns; chat
// batches address the phone column, which is all their schema declares.
func templateForMode(mode, subject, body string) dispatch.Template {
	to := "{" + table.ColumnEmail + "}"

	switch mode {
	case ModeChat:
		to = "{" + table.ColumnPhone + "}"
	case ModeMailColumns:
		if subject == "" {
			subject = "{" + table.ColumnSubject + "}"
		}
		if body == "" {
			body = "{" + table.ColumnBody + "}"
		}
	}

	return dispatch.Template{
		To:      to,
		Subject: subject,
		Body:    body,
	}
}

// Preview renders the templates against the batch's first row.
func (h *BatchHandler) Preview(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	batch, ok := batchFromRequest(w, r, sess)
	if !ok {
		return
	}

	var req models.PreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(batch.Rows) == 0 {
		http.Error(w, "Batch has no rows to preview", http.StatusUnprocessableEntity)
		return
	}

	tpl := templateForMode(batch.Mode, req.Subject, req.Body)
	row := batch.Rows[0]

	preview := models.PreviewResponse{}
	var err error
	if preview.To, err = renderOrError(w, tpl.To, row); err != nil {
		return
	}
	if preview.Subject, err = renderOrError(w, tpl.Subject, row); err != nil {
		return
	}
	if preview.Body, err = renderOrError(w, tpl.Body, row); err != nil {
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// Dispatch runs the bulk mail pipeline over a batch and returns the final
// report. Progress is pushed to the session's websocket while the run is in
// flight.
func (h *BatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	batch, ok := batchFromRequest(w, r, sess)
	if !ok {
		return
	}

	if batch.Mode == ModeChat {
		http.Error(w, "Chat batches are dispatched through the chat endpoints", http.StatusConflict)
		return
	}

	var req models.DispatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc, ok := mailServiceForSession(r.Context(), w, sess, h.mailFactory)
	if !ok {
		return
	}

	tpl := templateForMode(batch.Mode, req.Subject, req.Body)
	delay := h.delayFor(req.DelayMs)

	send := func(ctx context.Context, envelope mail.Envelope) error {
		_, err := svc.Send(ctx, mail.Encode(envelope))
		return err
	}

	h.runAndRespond(w, r, sess, batch, tpl, batch.Attachments, send, delay)
}

// runAndRespond executes the sequencer and maps its result onto the HTTP
// response, shared by the mail and chat dispatch paths.
func (h *BatchHandler) runAndRespond(
	w http.ResponseWriter,
	r *http.Request,
	sess *session.Session,
	batch *session.Batch,
	tpl dispatch.Template,
	attachments []mail.Attachment,
	send dispatch.SendFunc,
	delay time.Duration,
) {
	// The run is strictly sequential, so the counters need no locking.
	var sent, failed int
	counted := func(ctx context.Context, envelope mail.Envelope) error {
		err := send(ctx, envelope)
		if err != nil {
			failed++
		} else {
			sent++
		}
		return err
	}

	progress := func(processed, total int) {
		h.hub.Broadcast(sess.ID, websocket.ProgressFrame{
			BatchID:   batch.ID,
			Processed: processed,
			Total:     total,
			Sent:      sent,
			Failed:    failed,
			Done:      processed == total,
		})
	}

	report, err := dispatch.RunBulk(r.Context(), batch.Rows, tpl, attachments, counted, delay, progress)
	if err != nil {
		if dispatch.IsTemplateError(err) {
			log.Printf("BatchHandler: Dispatch aborted by template error: %v", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Printf("BatchHandler: Dispatch aborted: %v", err)
		http.Error(w, "Dispatch aborted: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse(report))
}

func (h *BatchHandler) delayFor(delayMs int) time.Duration {
	if delayMs <= 0 {
		return h.defaultDelay
	}
	return time.Duration(delayMs) * time.Millisecond
}

func reportResponse(report *dispatch.Report) models.DispatchResponse {
	resp := models.DispatchResponse{
		Sent:     report.Sent,
		Failed:   report.Failed,
		Aborted:  report.Aborted,
		Outcomes: make([]models.OutcomeResponse, 0, len(report.Outcomes)),
	}
	for _, outcome := range report.Outcomes {
		resp.Outcomes = append(resp.Outcomes, models.OutcomeResponse{
			Recipient: outcome.To,
			Success:   outcome.Success,
			Detail:    outcome.Detail,
		})
	}
	return resp
}

func renderOrError(w http.ResponseWriter, pattern string, row table.ContactRow) (string, error) {
	out, err := template.Render(pattern, row.Fields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return "", err
	}
	return out, nil
}
