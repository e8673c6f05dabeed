// Package session holds the per-browser-session state: the credential
// lifecycle and the cache of validated upload batches. Nothing here touches
// disk; state lives exactly as long as the process and the session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/A01753312/correojoseph/internal/auth"
	"github.com/A01753312/correojoseph/internal/mail"
	"github.com/A01753312/correojoseph/internal/table"
)

// Batch is one validated upload: the rows, the columns the templates may
// reference, and the attachment set read once and shared by every send.
type Batch struct {
	ID          string
	Mode        string
	Columns     []string
	Rows        []table.ContactRow
	Attachments []mail.Attachment
	CreatedAt   time.Time
}

// Session is the state of one browser session.
type Session struct {
	ID   string
	Auth *auth.SessionAuth

	mu      sync.Mutex
	batches map[string]*Batch
}

// PutBatch stores a validated batch, replacing any previous batch of the
// same mode (a re-upload discards the old rows).
func (s *Session) PutBatch(batch *Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.batches {
		if existing.Mode == batch.Mode {
			delete(s.batches, id)
		}
	}
	s.batches[batch.ID] = batch
}

// Batch returns a stored batch by id.
func (s *Session) Batch(id string) (*Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.batches[id]
	return batch, ok
}

// DropBatches discards every cached batch, e.g. on logout.
func (s *Session) DropBatches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = make(map[string]*Batch)
}

// Store is the in-memory registry of active sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session registry.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// New creates and registers a fresh session.
func (st *Store) New() *Session {
	session := &Session{
		ID:      uuid.NewString(),
		Auth:    auth.NewSessionAuth(),
		batches: make(map[string]*Batch),
	}

	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()

	return session
}

// Get returns the session with the given id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	session, ok := st.sessions[id]
	return session, ok
}

// Remove tears a session down, discarding its credentials and batches.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	session, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		session.Auth.Logout()
		session.DropBatches()
	}
}
