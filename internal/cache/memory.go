package cache

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*Memory)(nil)

type entry struct {
	storedAt  time.Time
	expiresAt time.Time
	value     []byte
}

// Memory is an in-process Store holding at most MaxItems entries.
type Memory struct {
	MaxItems int

	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

// NewMemory returns an empty store. maxItems <= 0 means unbounded.
func NewMemory(maxItems int) *Memory {
	return &Memory{MaxItems: maxItems, items: make(map[string]entry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := m.now()
	v := append([]byte(nil), value...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = entry{storedAt: now, expiresAt: now.Add(ttl), value: v}
	m.evictLocked(now)
	return nil
}

// evictLocked drops expired entries first, then the oldest ones, until the
// store is within MaxItems.
func (m *Memory) evictLocked(now time.Time) {
	if m.MaxItems <= 0 || len(m.items) <= m.MaxItems {
		return
	}
	for k, e := range m.items {
		if !now.Before(e.expiresAt) {
			delete(m.items, k)
		}
	}
	for len(m.items) > m.MaxItems {
		var oldestKey string
		var oldest time.Time
		for k, e := range m.items {
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey, oldest = k, e.storedAt
			}
		}
		delete(m.items, oldestKey)
	}
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Memory) Close() error { return nil }
