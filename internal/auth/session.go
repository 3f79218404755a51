package auth

import (
	"sync"
	"time"

	"github.com/rs/xid"
)

// Session is a server-side login record. It exists from successful
// authentication until explicit logout or TTL expiry.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore is the session lifecycle contract: created on login,
// looked up on every authenticated request, deleted on logout. An
// expired session behaves as if deleted.
type SessionStore interface {
	Create(userID string) (*Session, error)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// MemorySessionStore keeps sessions in process memory behind an
// RWMutex. Expired entries are dropped lazily on lookup.
type MemorySessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
}

var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates a store whose sessions expire after ttl.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session for userID.
func (s *MemorySessionStore) Create(userID string) (*Session, error) {
	now := time.Now()
	session := &Session{
		ID:        xid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

// Get returns the live session with the given ID, or (nil, false) if it
// never existed, was deleted, or has expired.
func (s *MemorySessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		s.Delete(id)
		return nil, false
	}

	return session, true
}

// Delete removes a session. Deleting an absent session is a no-op.
func (s *MemorySessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
