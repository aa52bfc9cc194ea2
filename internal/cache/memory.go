package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem[T any] struct {
	value     T
	expiresAt time.Time
}

func (i memoryItem[T]) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// MemoryCache is the in-process Cache used when no Redis is configured.
// Expired entries are dropped when read and swept at most once per ttl
// from Set.
type MemoryCache[T any] struct {
	mu        sync.RWMutex
	items     map[string]memoryItem[T]
	ttl       time.Duration
	lastSweep time.Time
}

func NewMemoryCache[T any](ttl time.Duration) *MemoryCache[T] {
	return &MemoryCache[T]{
		items:     make(map[string]memoryItem[T]),
		ttl:       ttl,
		lastSweep: time.Now(),
	}
}

func (m *MemoryCache[T]) Get(_ context.Context, id string) (*T, error) {
	m.mu.RLock()
	item, ok := m.items[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss
	}
	if item.expired(time.Now()) {
		m.mu.Lock()
		if current, ok := m.items[id]; ok && current.expired(time.Now()) {
			delete(m.items, id)
		}
		m.mu.Unlock()
		return nil, ErrCacheMiss
	}
	value := item.value
	return &value, nil
}

func (m *MemoryCache[T]) Set(_ context.Context, id string, value *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	item := memoryItem[T]{value: *value}
	if m.ttl > 0 {
		item.expiresAt = now.Add(m.ttl)
		if now.Sub(m.lastSweep) >= m.ttl {
			m.sweep(now)
		}
	}
	m.items[id] = item
	return nil
}

// sweep drops every expired entry. Callers hold the write lock.
func (m *MemoryCache[T]) sweep(now time.Time) {
	for id, item := range m.items {
		if item.expired(now) {
			delete(m.items, id)
		}
	}
	m.lastSweep = now
}

func (m *MemoryCache[T]) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *MemoryCache[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, id)
	return nil
}
