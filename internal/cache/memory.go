package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache keeps entries in process. It stands in for Redis on a single API instance.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// compile-time check: *MemoryCache must satisfy port.Cache
var _ port.Cache = (*MemoryCache)(nil)

func NewMemory() *MemoryCache {
	return &MemoryCache{entries: map[string]memoryEntry{}, now: time.Now}
}

// Get returns nil, nil on a miss or an expired entry.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, nil
	}
	return e.data, nil
}

// Set stores a copy of data. A ttl <= 0 never expires.
func (m *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) {
	e := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
