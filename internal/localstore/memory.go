package localstore

import (
	"context"
	"sync"
	"time"
)

// CleanupInterval is how often expired entries are swept.
const CleanupInterval = 30 * time.Second

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryBackend keeps entries in process memory. A zero ttl keeps entries
// forever.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	b := &MemoryBackend{
		entries:     make(map[string]memoryEntry),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	b.wg.Add(1)
	go b.cleanupLoop()

	return b
}

func (b *MemoryBackend) cleanupLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.expire()
		case <-b.stopCleanup:
			return
		}
	}
}

func (b *MemoryBackend) expire() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for key, entry := range b.entries {
		if entry.expired(now) {
			delete(b.entries, key)
		}
	}
}

func (b *MemoryBackend) Load(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.entries[key]
	if !ok || entry.expired(time.Now()) {
		return nil, ErrNotFound
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (b *MemoryBackend) Save(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if b.ttl > 0 {
		entry.expiresAt = time.Now().Add(b.ttl)
	}
	b.entries[key] = entry
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, key)
	return nil
}

// Close stops the background cleanup and waits for it to finish.
func (b *MemoryBackend) Close() error {
	close(b.stopCleanup)
	b.wg.Wait()
	return nil
}
