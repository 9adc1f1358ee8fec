// ABOUTME: In-memory session store binding cookie identifiers to principals
// ABOUTME: TTL-bound entries with a background cleanup goroutine

// Package session holds the transient identifier-to-principal mapping for
// browser traffic. The mapping is deliberately not durable: restarting the
// server logs everyone out. All mutation goes through the store's own lock;
// callers only get value snapshots.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// Session binds an opaque cookie identifier to an authenticated principal.
type Session struct {
	ID        string
	Login     string
	Roles     []string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is a concurrency-safe in-memory session store. Expired entries are
// rejected on read and swept by a background goroutine.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	cancel   context.CancelFunc

	// now is swappable for tests
	now func() time.Time
}

// NewStore creates a session store whose entries live for ttl. Call Close
// to stop the cleanup goroutine.
func NewStore(ttl time.Duration) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		cancel:   cancel,
		now:      time.Now,
	}
	go s.cleanupLoop(ctx)
	return s
}

// Close stops the cleanup goroutine.
func (s *Store) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Create mints a new session for the given principal and returns it. The
// returned value is a snapshot; mutating it does not affect the store.
func (s *Store) Create(login string, roles []string) (Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return Session{}, fmt.Errorf("generating session id: %w", err)
	}

	now := s.now()
	sess := &Session{
		ID:        id,
		Login:     login,
		Roles:     append([]string(nil), roles...),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return snapshot(sess), nil
}

// Get returns a consistent snapshot of the session, or false if it does not
// exist or has expired. Concurrent requests for the same session each see a
// complete principal, never a half-updated one.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || s.now().After(sess.ExpiresAt) {
		return Session{}, false
	}
	return snapshot(sess), true
}

// Delete removes a session. Deleting a non-existent session is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live entries, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			now := s.now()
			for id, sess := range s.sessions {
				if now.After(sess.ExpiresAt) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

// snapshot copies a session so callers never share the stored value.
func snapshot(sess *Session) Session {
	cp := *sess
	cp.Roles = append([]string(nil), sess.Roles...)
	return cp
}

// generateSessionID returns a cryptographically random 32-byte hex identifier.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
