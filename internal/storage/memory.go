package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Storage. A positive MaxBytes bounds the total
// size of keys plus values, like a browser's per-origin quota.
type Memory struct {
	mu       sync.RWMutex
	entries  map[string]string
	size     int
	maxBytes int
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

// NewMemoryWithQuota returns a Memory that rejects writes past maxBytes.
func NewMemoryWithQuota(maxBytes int) *Memory {
	m := NewMemory()
	m.maxBytes = maxBytes
	return m
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.size + len(value)
	if old, ok := m.entries[key]; ok {
		next -= len(old)
	} else {
		next += len(key)
	}
	if m.maxBytes > 0 && next > m.maxBytes {
		return ErrQuotaExceeded
	}
	m.entries[key] = value
	m.size = next
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	if old, ok := m.entries[key]; ok {
		m.size -= len(key) + len(old)
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
