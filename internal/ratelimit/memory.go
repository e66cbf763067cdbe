package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

type window struct {
	count   int64
	expires time.Time
}

// MemoryStore is a process-local fixed-window counter store.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
}

// compile-time checks
var (
	_ port.CounterStore = (*MemoryStore)(nil)
	_ port.TokenLedger  = (*MemoryLedger)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: map[string]window{}, now: time.Now}
}

func (s *MemoryStore) Incr(_ context.Context, key string, d time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.expires) {
		w = window{expires: now.Add(d)}
	}
	w.count++
	s.windows[key] = w
	s.prune(now)
	return w.count, w.expires.Sub(now), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}

// Clear drops every window.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = map[string]window{}
}

// prune drops expired windows once the map grows.
func (s *MemoryStore) prune(now time.Time) {
	if len(s.windows) < 1024 {
		return
	}
	for k, w := range s.windows {
		if !now.Before(w.expires) {
			delete(s.windows, k)
		}
	}
}

// MemoryLedger remembers consumed token ids in process memory.
type MemoryLedger struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{seen: map[string]time.Time{}, now: time.Now}
}

func (l *MemoryLedger) Consume(_ context.Context, tokenID string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, exp := range l.seen {
		if !now.Before(exp) {
			delete(l.seen, id)
		}
	}
	if _, used := l.seen[tokenID]; used {
		return false, nil
	}
	l.seen[tokenID] = now.Add(ttl)
	return true, nil
}
