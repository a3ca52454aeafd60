package watcher

import (
	"sync"
	"time"
)

// Suppressor holds short-lived, per-path tokens that tell the watcher to
// ignore the next write to a path. The tracker sets a token before a
// core-initiated write (rollback or restore) and clears it after, so those
// writes are not re-recorded as ordinary edits. Tokens expire on their own
// after a TTL in case the write never happens.
type Suppressor struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration
}

// NewSuppressor creates a suppressor whose tokens expire after ttl.
func NewSuppressor(ttl time.Duration) *Suppressor {
	return &Suppressor{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
	}
}

// Suppress sets a token for path.
func (s *Suppressor) Suppress(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[path] = time.Now().Add(s.ttl)
}

// Clear removes the token for path, if any.
func (s *Suppressor) Clear(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, path)
}

// ShouldSuppress reports whether an unexpired token exists for path. Expired
// tokens are dropped on sight.
func (s *Suppressor) ShouldSuppress(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, ok := s.tokens[path]
	if !ok {
		return false
	}
	if time.Now().After(deadline) {
		delete(s.tokens, path)
		return false
	}
	return true
}
