package session

import (
	"sync"

	"github.com/gobarber/gobarber-client/pkg/logger"
	"github.com/gobarber/gobarber-client/pkg/metrics"
	"go.uber.org/zap"
)

// Store is the single owner of the current Session. Callers read it with
// Current and replace it as a whole with Update; fields are never mutated
// in place.
type Store interface {
	Current() Session
	Update(newSession Session)
}

// Listener is notified after every Update with the new session
type Listener func(Session)

// MemoryStore keeps the session in memory. Concurrent updates are applied
// last-writer-wins: the update that acquires the lock last is what remains.
type MemoryStore struct {
	mu        sync.RWMutex
	current   Session
	revision  uint64
	listeners []Listener
}

// NewMemoryStore creates a store seeded with initial
func NewMemoryStore(initial Session) *MemoryStore {
	return &MemoryStore{current: initial}
}

// Current returns the current session
func (s *MemoryStore) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Revision returns how many times the session has been replaced
func (s *MemoryStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Update replaces the session and notifies listeners outside the lock
func (s *MemoryStore) Update(newSession Session) {
	s.mu.Lock()
	s.current = newSession
	s.revision++
	revision := s.revision
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	metrics.SessionUpdates.Inc()
	logger.Debug("Session replaced",
		zap.String("user_id", newSession.User.ID),
		zap.Uint64("revision", revision))

	for _, l := range listeners {
		l(newSession)
	}
}

// Subscribe registers a listener called after each Update
func (s *MemoryStore) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}
