package cache

import (
	"context"
	"sync"
	"time"
)

// SessionLocker serializes mutations per session key. Backed by Redis when
// configured, by an in-process keyed mutex otherwise.
type SessionLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// KeyedMutex is the single-instance fallback locker. TryLock fails fast
// instead of blocking so a concurrent submission is rejected, not queued.
type KeyedMutex struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{held: make(map[string]struct{})}
}

func (m *KeyedMutex) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[key]; ok {
		return false, nil
	}
	m.held[key] = struct{}{}
	return true, nil
}

func (m *KeyedMutex) Unlock(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, key)
	return nil
}
