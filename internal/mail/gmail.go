package mail

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// gmailUser addresses the mailbox of the authenticated user.
const gmailUser = "me"

// GmailService implements Service against the Gmail REST API using the
// delegated OAuth credentials of the current session.
type GmailService struct {
	svc *gmail.Service
}

// Ensure GmailService implements the Service interface.
var _ Service = (*GmailService)(nil)

// NewGmailService builds a Gmail-backed Service from an OAuth token source.
func NewGmailService(ctx context.Context, ts oauth2.TokenSource) (*GmailService, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	return &GmailService{svc: svc}, nil
}

func (g *GmailService) Send(ctx context.Context, raw []byte) (string, error) {
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}

	sent, err := g.svc.Users.Messages.Send(gmailUser, msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gmail send failed: %w", err)
	}

	return sent.Id, nil
}

func (g *GmailService) ListRecent(ctx context.Context, max int64) ([]MessageRef, error) {
	res, err := g.svc.Users.Messages.List(gmailUser).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail list failed: %w", err)
	}

	refs := make([]MessageRef, 0, len(res.Messages))
	for _, m := range res.Messages {
		refs = append(refs, MessageRef{ID: m.Id})
	}

	return refs, nil
}

func (g *GmailService) GetMetadata(ctx context.Context, id string, headerNames []string) ([]Header, error) {
	call := g.svc.Users.Messages.Get(gmailUser, id).Format("metadata")
	if len(headerNames) > 0 {
		call = call.MetadataHeaders(headerNames...)
	}

	msg, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail metadata fetch failed: %w", err)
	}

	if msg.Payload == nil {
		return nil, nil
	}

	headers := make([]Header, 0, len(msg.Payload.Headers))
	for _, h := range msg.Payload.Headers {
		headers = append(headers, Header{Name: h.Name, Value: h.Value})
	}

	return headers, nil
}

func (g *GmailService) GetRaw(ctx context.Context, id string) ([]byte, error) {
	msg, err := g.svc.Users.Messages.Get(gmailUser, id).Format("raw").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail raw fetch failed: %w", err)
	}

	raw, err := decodeBase64URL(msg.Raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode raw message: %w", err)
	}

	return raw, nil
}

// decodeBase64URL accepts both padded and unpadded URL-safe base64; the
// provider omits padding.
func decodeBase64URL(s string) ([]byte, error) {
	if decoded, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	return base64.URLEncoding.DecodeString(s)
}
