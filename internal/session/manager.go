package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Manager owns the live sessions, keyed by connection identity. Each
// websocket connection gets exactly one session for its lifetime.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	seq      atomic.Uint64
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// NextID returns a fresh opaque connection identifier.
func (m *Manager) NextID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102150405"), m.seq.Add(1))
}

// Create registers and returns a new session for id, replacing any previous
// session under the same key.
func (m *Manager) Create(id string) *Session {
	s := New(id)
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

// Get returns the session for id, if any.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove deletes the session for id.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
