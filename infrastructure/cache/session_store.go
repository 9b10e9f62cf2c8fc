// Package cache holds in-memory state shared across requests.
package cache

import (
	"sync"
	"time"

	"gearscan/engine"
)

// DefaultSessionTTL is how long an idle scan session survives before it is
// reclaimed.
const DefaultSessionTTL = 12 * time.Hour

// ScanSessionStore keeps live scan sessions by id.
type ScanSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*storedSession
	ttl      time.Duration
}

type storedSession struct {
	session  *engine.Session
	lastSeen time.Time
}

// NewScanSessionStore creates a store. A ttl of zero or less falls back to
// DefaultSessionTTL.
func NewScanSessionStore(ttl time.Duration) *ScanSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &ScanSessionStore{
		sessions: make(map[string]*storedSession),
		ttl:      ttl,
	}
}

// Add registers a session and reclaims any expired ones.
func (s *ScanSessionStore) Add(session *engine.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.sessions[session.ID] = &storedSession{session: session, lastSeen: time.Now()}
}

// Find returns a live session by id, refreshing its idle deadline.
func (s *ScanSessionStore) Find(id string) (*engine.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(stored.lastSeen) > s.ttl {
		stored.session.Close()
		delete(s.sessions, id)
		return nil, false
	}
	stored.lastSeen = time.Now()
	return stored.session, true
}

// Delete ends a session and removes it from the store.
func (s *ScanSessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.sessions[id]; ok {
		stored.session.Close()
		delete(s.sessions, id)
	}
}

// Len reports the number of live sessions.
func (s *ScanSessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *ScanSessionStore) purgeLocked() {
	now := time.Now()
	for id, stored := range s.sessions {
		if now.Sub(stored.lastSeen) > s.ttl {
			stored.session.Close()
			delete(s.sessions, id)
		}
	}
}
