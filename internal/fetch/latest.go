package fetch

// Package fetch provides a generation guard for independently triggered
// asynchronous fetches against the same piece of state. Without it, two rapid
// refreshes can resolve out of submission order and leave the state
// reflecting the superseded request. Each refresh takes a generation at start
// and may only commit if no newer refresh has begun since.

import "sync"

// Latest tracks which refresh generation is current.
type Latest struct {
	mu  sync.Mutex
	gen uint64
}

// Begin starts a new generation, superseding all earlier ones, and returns it.
func (l *Latest) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	return l.gen
}

// Current reports whether gen is still the newest generation.
func (l *Latest) Current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen == gen
}

// Commit runs apply only if gen is still current, holding the guard so a
// newer Begin cannot interleave with the application of a stale result.
// It reports whether apply ran.
func (l *Latest) Commit(gen uint64, apply func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		return false
	}
	apply()
	return true
}
