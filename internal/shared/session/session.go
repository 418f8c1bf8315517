package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL matches the session cookie lifetime.
const DefaultTTL = 24 * time.Hour

// Manager issues and validates anonymous session identifiers.
// Sessions live in process memory and expire after the configured TTL.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]time.Time // id -> expiry
	ttl      time.Duration
	now      func() time.Time
}

// NewManager constructs a Manager with the given TTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates a new session and returns its identifier.
func (m *Manager) Issue() string {
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = m.now().Add(m.ttl)
	return id
}

// Validate reports whether the session exists and has not expired.
// Expired entries are removed on sight.
func (m *Manager) Validate(id string) bool {
	if id == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.sessions[id]
	if !ok {
		return false
	}
	if m.now().After(expiry) {
		delete(m.sessions, id)
		return false
	}
	return true
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// PruneExpired removes expired sessions and returns the number removed.
func (m *Manager) PruneExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	count := 0
	for id, expiry := range m.sessions {
		if now.After(expiry) {
			delete(m.sessions, id)
			count++
		}
	}
	return count
}
