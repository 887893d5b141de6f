// Package session authenticates users against the ledger's user directory
// and tracks bearer tokens in memory. Tokens do not survive a restart;
// clients log in again.
package session

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// DefaultTTL bounds how long a token stays valid without a new login.
const DefaultTTL = 12 * time.Hour

// Session is one authenticated login.
type Session struct {
	Token     string
	Username  string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Manager issues and validates session tokens.
type Manager struct {
	mu       sync.Mutex
	users    types.UserDirectory
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a session manager over the user directory. A ttl of
// zero means DefaultTTL.
func NewManager(users types.UserDirectory, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		users:    users,
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// HashPassword returns the hex digest stored in the user directory.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Login checks the credentials and issues a token. Unknown usernames and
// wrong passwords fail the same way so the response does not leak which
// usernames exist.
func (m *Manager) Login(username, password string) (Session, error) {
	user, err := m.users.GetUser(username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return Session{}, types.ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("look up user: %w", err)
	}

	digest := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(user.PasswordHash)) != 1 {
		return Session{}, types.ErrInvalidCredentials
	}

	now := m.now()
	session := Session{
		Token:     generateToken(),
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[session.Token] = session
	m.mu.Unlock()
	return session, nil
}

// Validate resolves a token to its session. Expired tokens are dropped on
// first sight.
func (m *Manager) Validate(token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return Session{}, types.ErrSessionExpired
	}
	if m.now().After(session.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, types.ErrSessionExpired
	}
	return session, nil
}

// Logout discards a token. Unknown tokens are a no-op.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

func generateToken() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
