// Package auth holds the session context and the client for the external
// identity service. The identity provider itself is opaque: all the core
// needs from it is a stable user id.
package auth

import "sync"

// Session holds the currently authenticated user id. The zero value is an
// unauthenticated session. Reconciler and remote gateway calls are gated on
// the session being authenticated.
type Session struct {
	mu     sync.RWMutex
	userID string
}

// UserID returns the authenticated user id, or ("", false) when signed out.
func (s *Session) UserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}

// Set records the authenticated user id.
func (s *Session) Set(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// Clear signs the session out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
}
