package session

import (
	"errors"
	"net/url"
	"sync"
)

// ErrExpired is returned when the API session can no longer be renewed.
// Callers must treat it as terminal: credentials are already cleared and
// the user has to authenticate again.
var ErrExpired = errors.New("session expired")

// Store holds the bearer token pair for the upstream API session.
// It is safe for concurrent use by handlers and the polling loop.
type Store struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewStore creates a Store seeded with the given token pair.
func NewStore(access, refresh string) *Store {
	return &Store{
		access:  access,
		refresh: refresh,
	}
}

// Access returns the current access token. Empty means unauthenticated.
func (s *Store) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// Refresh returns the current refresh token.
func (s *Store) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// SetAccess replaces the access token after a successful silent refresh.
func (s *Store) SetAccess(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
}

// Clear drops both tokens. Called when a refresh attempt fails.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}

// LoginRedirect builds the login path carrying a return-to parameter,
// so the user lands back on the page they were tracking.
func LoginRedirect(returnTo string) string {
	if returnTo == "" {
		return "/login"
	}
	return "/login?redirect=" + url.QueryEscape(returnTo)
}
