package memstore

// Package memstore provides the ephemeral credential scope: an in-process
// store that is lost when the gateway restarts. Login without "remember me"
// lands here.

import (
	"context"
	"maps"
	"sync"
	"time"
)

type entry struct {
	fields    map[string]string
	expiresAt time.Time
}

// Store is a process-local scope store guarded by a mutex so the
// "all fields change together" invariant holds under concurrent access.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty in-memory scope store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *Store) Write(_ context.Context, sid string, fields map[string]string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = entry{
		fields:    maps.Clone(fields),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *Store) Read(_ context.Context, sid string) (map[string]string, error) {
	s.mu.RLock()
	e, ok := s.entries[sid]
	s.mu.RUnlock()
	if !ok {
		return map[string]string{}, nil
	}
	if s.now().After(e.expiresAt) {
		// Lazy expiry: drop the record on first read past its TTL. Re-check
		// under the write lock so a record rewritten since the read lock was
		// released is left alone.
		s.mu.Lock()
		if cur, ok := s.entries[sid]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, sid)
		}
		s.mu.Unlock()
		return map[string]string{}, nil
	}
	return maps.Clone(e.fields), nil
}

func (s *Store) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.entries, sid)
	s.mu.Unlock()
	return nil
}
