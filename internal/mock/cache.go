package mock

import (
	"context"
	"time"
)

// Cache implements port.Cache in memory for tests.
type Cache struct {
	Entries map[string][]byte
	TTLs    map[string]time.Duration

	// errors
	GetErr    error
	DeleteErr error

	// call flags
	GetCalled    bool
	SetCalled    bool
	DeleteCalled bool
}

func NewCache() *Cache {
	return &Cache{Entries: map[string][]byte{}, TTLs: map[string]time.Duration{}}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.GetCalled = true
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	return c.Entries[key], nil
}

func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	c.SetCalled = true
	if c.Entries == nil {
		c.Entries = map[string][]byte{}
		c.TTLs = map[string]time.Duration{}
	}
	c.Entries[key] = data
	c.TTLs[key] = ttl
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.DeleteCalled = true
	if c.DeleteErr != nil {
		return c.DeleteErr
	}
	delete(c.Entries, key)
	return nil
}
