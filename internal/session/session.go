// Package session issues and resolves opaque session tokens. The token table
// is process-local by design: a restart invalidates every outstanding session.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

const tokenBytes = 18 // 144 bits of entropy

// Session binds a token to an identity and a role snapshot taken at login.
type Session struct {
	UserID    string
	IsAdmin   bool
	CreatedAt time.Time
}

// Store is the session-store abstraction. The in-memory implementation below
// is the only one today; a shared backing store slots in behind the same
// interface for a multi-process deployment.
type Store interface {
	Create(userID string) (token string, s Session)
	Resolve(token string) (Session, bool)
	Destroy(token string)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	admins   map[string]struct{}
	maxAge   time.Duration
}

// NewMemoryStore creates an in-process session store. adminIDs is the static
// administrator allow-list consulted when the role snapshot is taken. maxAge
// bounds session lifetime, enforced at resolve time; zero disables expiry.
func NewMemoryStore(adminIDs []string, maxAge time.Duration) Store {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &memoryStore{
		sessions: make(map[string]Session),
		admins:   admins,
		maxAge:   maxAge,
	}
}

func (m *memoryStore) Create(userID string) (string, Session) {
	token := newToken()
	_, isAdmin := m.admins[userID]
	s := Session{
		UserID:    userID,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now(),
	}
	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()
	return token, s
}

func (m *memoryStore) Resolve(token string) (Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if m.maxAge > 0 && time.Since(s.CreatedAt) > m.maxAge {
		m.Destroy(token)
		return Session{}, false
	}
	return s, true
}

func (m *memoryStore) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// newToken returns a cryptographically random opaque token.
func newToken() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}
