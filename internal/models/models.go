// Package models defines the request and response payloads of the HTTP API.
package models

// AuthURLResponse carries the provider consent URL the UI redirects to.
type AuthURLResponse struct {
	URL string `json:"url"`
}

// AuthStatusResponse reports whether the session holds provider credentials.
type AuthStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	State         string `json:"state"`
}

// BatchResponse describes a validated upload batch.
type BatchResponse struct {
	ID              string   `json:"id"`
	Mode            string   `json:"mode"`
	RowCount        int      `json:"row_count"`
	Columns         []string `json:"columns"`
	AttachmentCount int      `json:"attachment_count"`
}

// PreviewRequest carries the templates to render against the batch's first
// row.
type PreviewRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// PreviewResponse is the rendered preview of one row.
type PreviewResponse struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DispatchRequest starts a bulk mail run over a batch.
type DispatchRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	DelayMs int    `json:"delay_ms"`
}

// OutcomeResponse is the result of one attempted send.
type OutcomeResponse struct {
	Recipient string `json:"recipient"`
	Success   bool   `json:"success"`
	Detail    string `json:"detail"`
}

// DispatchResponse is the final report of a bulk run.
type DispatchResponse struct {
	Sent     int               `json:"sent"`
	Failed   int               `json:"failed"`
	Aborted  bool              `json:"aborted"`
	Outcomes []OutcomeResponse `json:"outcomes"`
}

// ChatLinksRequest renders a message template per row of a chat batch.
type ChatLinksRequest struct {
	Message string `json:"message"`
}

// ChatLink is one per-contact deep link with its rendered text.
type ChatLink struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Text   string `json:"text"`
	Link   string `json:"link"`
}

// ChatLinksResponse carries the generated deep links.
type ChatLinksResponse struct {
	Links []ChatLink `json:"links"`
}

// ChatDispatchRequest starts an instant-send run over a chat batch.
type ChatDispatchRequest struct {
	Message          string `json:"message"`
	DelayMs          int    `json:"delay_ms"`
	WaitSeconds      int    `json:"wait_seconds"`
	AutoCloseSeconds int    `json:"auto_close_seconds"`
}

// InboxMessage is one inbox entry with its requested headers.
type InboxMessage struct {
	ID      string            `json:"id"`
	Headers map[string]string `json:"headers"`
}

// InboxResponse lists recent inbox metadata.
type InboxResponse struct {
	Messages []InboxMessage `json:"messages"`
}

// MessagePreviewResponse is the parsed preview of one received message.
type MessagePreviewResponse struct {
	Subject     string   `json:"subject"`
	From        string   `json:"from"`
	Snippet     string   `json:"snippet"`
	Attachments []string `json:"attachments"`
}

// SendResponse reports a single direct send.
type SendResponse struct {
	ID string `json:"id"`
}
