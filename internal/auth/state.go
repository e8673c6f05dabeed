package auth

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNotAuthenticated is returned when an operation requires provider
// credentials and the session holds none.
var ErrNotAuthenticated = errors.New("not authenticated with the mail provider")

// State is the credential lifecycle of one user session.
type State int

const (
	// StateUnset means no credentials are held.
	StateUnset State = iota
	// StatePendingExchange means an authorization code was received but not
	// yet exchanged. The state is transient.
	StatePendingExchange
	// StateAuthenticated means valid credentials are held.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StatePendingExchange:
		return "pending_exchange"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionAuth holds the credentials of one session and guards every
// transition. Credentials live only in memory and only for the lifetime of
// the session; logout discards them.
type SessionAuth struct {
	mu    sync.Mutex
	state State
	token *oauth2.Token
}

// NewSessionAuth returns a SessionAuth in the Unset state.
func NewSessionAuth() *SessionAuth {
	return &SessionAuth{state: StateUnset}
}

// State returns the current lifecycle state.
func (s *SessionAuth) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Authenticated reports whether provider calls are currently permitted.
func (s *SessionAuth) Authenticated() bool {
	return s.State() == StateAuthenticated
}

// Exchange runs the code exchange through the provider and applies the
// resulting transition: PendingExchange while the call is in flight, then
// Authenticated on success or back to Unset on failure.
func (s *SessionAuth) Exchange(ctx context.Context, provider Provider, code string) error {
	s.mu.Lock()
	s.state = StatePendingExchange
	s.mu.Unlock()

	token, err := provider.Exchange(ctx, code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateUnset
		s.token = nil
		return err
	}

	s.token = token
	s.state = StateAuthenticated
	return nil
}

// Credentials returns the held token bundle, or ErrNotAuthenticated when the
// session is not in the Authenticated state.
func (s *SessionAuth) Credentials() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated || s.token == nil {
		return nil, ErrNotAuthenticated
	}
	return s.token, nil
}

// Logout discards the credentials and returns the session to Unset.
func (s *SessionAuth) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	s.state = StateUnset
}
