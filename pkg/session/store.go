// Package session owns the in-memory table binding bearer tokens to
// resolved credential bundles for the HTTP transport.
//
// The store is the sole mutator of the table. Every check-then-act
// sequence (expiry check + eviction, validation + timestamp refresh) runs
// under one lock so concurrent requests for the same token are
// linearizable; an evicted token can never validate again.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"apstramcp/pkg/credentials"
	"go.uber.org/zap"
)

// DefaultTimeout is the idle timeout shared by all sessions.
const DefaultTimeout = time.Hour

// tokenBytes is the entropy drawn per token. 32 bytes from a CSPRNG makes
// collision and guessing negligible.
const tokenBytes = 32

// authenticator is the slice of the controller client the store needs:
// a live login that proves the supplied identity.
type authenticator interface {
	Login(ctx context.Context, creds credentials.Bundle) (http.Header, error)
}

type record struct {
	creds        credentials.Bundle
	createdAt    time.Time
	lastAccessed time.Time
}

// Store is a concurrency-safe session table.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*record

	auth    authenticator
	timeout time.Duration
	now     func() time.Time
}

// NewStore creates a session store that validates identities through auth.
// A zero timeout selects DefaultTimeout.
func NewStore(auth authenticator, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		sessions: make(map[string]*record),
		auth:     auth,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Timeout returns the configured session idle timeout.
func (s *Store) Timeout() time.Duration {
	return s.timeout
}

// Authenticate validates the identity with a live controller login and, on
// success, creates a session and returns its token. It never propagates an
// error past this boundary: failures come back as (false, message, "").
func (s *Store) Authenticate(ctx context.Context, username, password, server, port string) (bool, string, string) {
	creds := credentials.Bundle{
		Server:   server,
		Port:     port,
		Username: username,
		Password: password,
	}

	if _, err := s.auth.Login(ctx, creds); err != nil {
		msg := fmt.Sprintf("Authentication failed: %v", err)
		zap.L().Warn("session authentication failed",
			zap.String("username", username), zap.String("server", server), zap.Error(err))
		return false, msg, ""
	}

	token, err := generateToken()
	if err != nil {
		return false, fmt.Sprintf("Authentication failed: %v", err), ""
	}

	now := s.now()
	s.mu.Lock()
	s.sweepLocked(now)
	s.sessions[token] = &record{
		creds:        creds,
		createdAt:    now,
		lastAccessed: now,
	}
	s.mu.Unlock()

	zap.L().Info("session created",
		zap.String("username", username), zap.String("server", server))

	return true, "Authentication successful", token
}

// Validate looks up a token, evicting it when expired, and refreshes its
// last-accessed timestamp otherwise. It implements credentials.SessionValidator.
func (s *Store) Validate(token string) (credentials.Bundle, bool) {
	if token == "" {
		return credentials.Bundle{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[token]
	if !ok {
		return credentials.Bundle{}, false
	}

	now := s.now()
	if now.Sub(rec.lastAccessed) > s.timeout {
		delete(s.sessions, token)
		zap.L().Info("session expired", zap.String("username", rec.creds.Username))
		return credentials.Bundle{}, false
	}

	rec.lastAccessed = now
	return rec.creds, true
}

// Logout removes the session if present and reports whether it existed.
func (s *Store) Logout(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[token]
	if !ok {
		return false
	}
	delete(s.sessions, token)
	zap.L().Info("session logged out", zap.String("username", rec.creds.Username))

	return true
}

// SweepExpired evicts every expired session and returns the count evicted.
func (s *Store) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sweepLocked(s.now())
}

func (s *Store) sweepLocked(now time.Time) int {
	count := 0
	for token, rec := range s.sessions {
		if now.Sub(rec.lastAccessed) > s.timeout {
			delete(s.sessions, token)
			count++
		}
	}
	if count > 0 {
		zap.L().Info("swept expired sessions", zap.Int("count", count))
	}

	return count
}

// Info is the credential-free view of a session for display purposes.
type Info struct {
	Username     string    `json:"username"`
	Server       string    `json:"server"`
	Port         string    `json:"port"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	ExpiresIn    float64   `json:"expires_in_seconds"`
}

// Info returns the session's display view without the password. The expiry
// check matches Validate but the timestamp is not refreshed.
func (s *Store) Info(token string) (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[token]
	if !ok {
		return Info{}, false
	}

	now := s.now()
	if now.Sub(rec.lastAccessed) > s.timeout {
		delete(s.sessions, token)
		return Info{}, false
	}

	return Info{
		Username:     rec.creds.Username,
		Server:       rec.creds.Server,
		Port:         rec.creds.Port,
		CreatedAt:    rec.createdAt,
		LastAccessed: rec.lastAccessed,
		ExpiresIn:    (s.timeout - now.Sub(rec.lastAccessed)).Seconds(),
	}, true
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// StartSweeper evicts expired sessions every interval until ctx is done.
// Sweeping only bounds memory growth; Validate already enforces expiry.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepExpired()
			}
		}
	}()
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
