package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process SeenCache used when Redis is not
// configured, and in tests.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]struct{}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]struct{}),
	}
}

func (m *MemoryCache) Close() error {
	return nil
}

func (m *MemoryCache) Seen(ctx context.Context, hash string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.data[hash]
	return exists, nil
}

func (m *MemoryCache) MarkSeen(ctx context.Context, hash string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[hash] = struct{}{}
	return nil
}
