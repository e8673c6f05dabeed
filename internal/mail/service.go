package mail

import "context"

// MessageRef identifies one message in the user's mailbox.
type MessageRef struct {
	ID string
}

// Header is a single message header as returned by the provider.
type Header struct {
	Name  string
	Value string
}

// Service is the narrow interface the rest of the application uses to talk
// to the mail provider. Handlers are tested against mock implementations.
type Service interface {
	// Send delivers a raw RFC 822 message and returns the provider's id.
	Send(ctx context.Context, raw []byte) (string, error)

	// ListRecent returns references to the newest max messages in the inbox.
	ListRecent(ctx context.Context, max int64) ([]MessageRef, error)

	// GetMetadata fetches the named headers of one message.
	GetMetadata(ctx context.Context, id string, headerNames []string) ([]Header, error)

	// GetRaw fetches the full raw bytes of one message.
	GetRaw(ctx context.Context, id string) ([]byte, error)
}
