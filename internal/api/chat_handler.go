package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/A01753312/correojoseph/internal/chat"
	"github.com/A01753312/correojoseph/internal/dispatch"
	"github.com/A01753312/correojoseph/internal/mail"
	"github.com/A01753312/correojoseph/internal/models"
	"github.com/A01753312/correojoseph/internal/table"
	"github.com/A01753312/correojoseph/internal/template"
)

// ChatHandler generates chat deep links and drives instant sends over a
// chat batch.
type ChatHandler struct {
	dispatcher  *chat.Dispatcher
	countryCode string
	batches     *BatchHandler
}

// NewChatHandler creates a new ChatHandler instance. countryCode is the
// prefix prepended to every validated phone number.
func NewChatHandler(dispatcher *chat.Dispatcher, countryCode string, batches *BatchHandler) *ChatHandler {
	return &ChatHandler{
		dispatcher:  dispatcher,
		countryCode: countryCode,
		batches:     batches,
	}
}

// Links renders the message per row and returns one clickable deep link per
// contact. This path needs no local browser and works in hosted deployments.
func (h *ChatHandler) Links(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	batch, ok := batchFromRequest(w, r, sess)
	if !ok {
		return
	}

	var req models.ChatLinksRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	links := make([]models.ChatLink, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		text, err := template.Render(req.Message, row.Fields)
		if err != nil {
			// A broken template is a configuration error; no links are returned.
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		link, err := chat.BuildLink(h.countryCode, row.Phone(), text)
		if err != nil {
			http.Error(w, "Row for "+row.Name()+": "+err.Error(), http.StatusUnprocessableEntity)
			return
		}

		links = append(links, models.ChatLink{
			Name:   row.Name(),
			Number: row.Phone(),
			Text:   text,
			Link:   link,
		})
	}

	writeJSON(w, http.StatusOK, models.ChatLinksResponse{Links: links})
}

// Dispatch drives instant sends through the local browser, one row at a
// time with the same sequencer the mail path uses. When the environment has
// no interactive browser the operation is reported unavailable up front.
func (h *ChatHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	batch, ok := batchFromRequest(w, r, sess)
	if !ok {
		return
	}

	if err := h.dispatcher.Available(); err != nil {
		log.Printf("ChatHandler: Automation unavailable: %v", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	var req models.ChatDispatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	wait := time.Duration(req.WaitSeconds) * time.Second
	autoClose := time.Duration(req.AutoCloseSeconds) * time.Second

	tpl := dispatch.Template{
		To:      "{" + table.ColumnPhone + "}",
		Subject: "",
		Body:    req.Message,
	}

	send := func(ctx context.Context, envelope mail.Envelope) error {
		return h.dispatcher.SendInstant(ctx, h.countryCode+envelope.To, envelope.Body, wait, autoClose)
	}

	h.batches.runAndRespond(w, r, sess, batch, tpl, nil, send, h.batches.delayFor(req.DelayMs))
}
