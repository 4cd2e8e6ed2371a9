package storage

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/storage/memory/v2"
)

// Memory adapts the Fiber memory storage to Backend. Values are copied on
// the way in and out.
type Memory struct {
	mu     sync.RWMutex
	store  *memory.Storage
	closed bool
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{store: memory.New()}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	val, err := m.store.Get(key)
	if err != nil || val == nil {
		return nil, err
	}
	return append([]byte(nil), val...), nil
}

// Set stores val. The underlying store counts expiry in whole seconds, so
// exp is rounded up and padded by a second to never expire early. An empty
// val reads back as absent and is stored as a delete.
func (m *Memory) Set(_ context.Context, key string, val []byte, exp time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}
	if len(val) == 0 {
		return m.store.Delete(key)
	}
	return m.store.Set(key, append([]byte(nil), val...), wholeSeconds(exp))
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}
	return m.store.Delete(key)
}

func (m *Memory) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close stops the expiry sweeper. Closing twice is a no-op.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	return m.store.Close()
}

func wholeSeconds(exp time.Duration) time.Duration {
	if exp <= 0 {
		return 0
	}
	return exp.Truncate(time.Second) + time.Second
}
