// Package memory keeps revoked token ids in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"lostfound/internal/port"
)

type store struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time
}

// NewStore creates an in-memory TokenStore. Expired entries are purged
// lazily on each Revoke.
func NewStore() port.TokenStore {
	return &store{now: time.Now, revoked: make(map[string]time.Time)}
}

func (s *store) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	if ttl > 0 {
		s.revoked[tokenID] = now.Add(ttl)
	}
	return nil
}

func (s *store) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[tokenID]
	return ok && exp.After(s.now()), nil
}
