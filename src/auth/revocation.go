package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationStore records tokens that must no longer be honored. Revoke is
// idempotent and must be visible to any IsRevoked call that begins after
// Revoke returns. Entries may be dropped once the token itself has expired.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// MemoryRevocationStore is a process-local RevocationStore used when no Redis
// is configured, and in tests. Expired entries are purged lazily.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryRevocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Keep the later expiry if the token was already revoked.
	expiry := s.now().Add(ttl)
	if existing, ok := s.revoked[token]; !ok || expiry.After(existing) {
		s.revoked[token] = expiry
	}
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	s.mu.RLock()
	expiry, ok := s.revoked[token]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.now().After(expiry) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Revoke may have
		// extended the entry.
		if expiry, ok := s.revoked[token]; ok && s.now().After(expiry) {
			delete(s.revoked, token)
		}
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}
