package store

import "sync"

// RevokedTokenStore is a permanent set of revoked token strings.
// Membership lasts for the process lifetime; expired tokens are never
// purged because verification checks expiry independently.
type RevokedTokenStore struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

func NewRevokedTokenStore() *RevokedTokenStore {
	return &RevokedTokenStore{revoked: make(map[string]struct{})}
}

func (s *RevokedTokenStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[token] = struct{}{}
}

func (s *RevokedTokenStore) IsRevoked(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.revoked[token]
	return ok
}
