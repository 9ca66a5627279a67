// Package session holds server-side login state for the browser-facing app,
// keyed by an opaque cookie-carried identifier.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pawbase/pawbase/internal/metrics"
)

// Session binds a browser to an authenticated user. CSRFToken is the value a
// state-changing form must echo back.
type Session struct {
	UserID    int
	Username  string
	CSRFToken string
	ExpiresAt time.Time
}

// Store is the session collaborator used by the web handlers. Implementations
// look sessions up, write them, and clear them by session id; cookie mechanics
// stay in the HTTP layer.
type Store interface {
	Get(id string) (Session, bool)
	Set(id string, s Session)
	Clear(id string)
}

// NewID returns a fresh opaque session identifier.
func NewID() string {
	return uuid.NewString()
}

// MemoryStore is an in-process Store with per-session TTL.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

// NewMemoryStore returns a MemoryStore whose sessions live for ttl after each Set.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

// Get returns the session for id. Expired sessions are treated as absent.
func (s *MemoryStore) Get(id string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		s.Clear(id)
		return Session{}, false
	}
	return sess, true
}

// Set writes the session under id, refreshing its expiry.
func (s *MemoryStore) Set(id string, sess Session) {
	sess.ExpiresAt = time.Now().Add(s.ttl)
	s.mu.Lock()
	if _, existed := s.sessions[id]; !existed {
		metrics.IncSessionsActive()
	}
	s.sessions[id] = sess
	s.mu.Unlock()
}

// Clear removes the session under id. Clearing an absent id is a no-op, so
// double logout stays idempotent.
func (s *MemoryStore) Clear(id string) {
	s.mu.Lock()
	if _, existed := s.sessions[id]; existed {
		metrics.DecSessionsActive()
		delete(s.sessions, id)
	}
	s.mu.Unlock()
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	now := time.Now()
	removed := 0
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			metrics.DecSessionsActive()
			removed++
		}
	}
	s.mu.Unlock()
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
