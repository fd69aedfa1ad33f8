// Package localstore keeps memory cards in a single key-value slot as a
// JSON array, the way a browser profile keeps them in local storage.
package localstore

import (
	"context"
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned by a slot that cannot hold the value being written
var ErrQuotaExceeded = errors.New("localstore: quota exceeded")

// Slot is a persistent string slot addressed by key
type Slot interface {
	// Get returns the value stored at key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value stored at key
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing a missing key is not an error
	Remove(ctx context.Context, key string) error
}

// MemorySlot is an in-process Slot. A positive Quota caps the UTF-16 byte
// size of every stored value combined.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string]string
	Quota  int
}

// NewMemorySlot creates an empty in-process slot
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string]string)}
}

// Get implements Slot
func (m *MemorySlot) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Slot
func (m *MemorySlot) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Quota > 0 {
		used := EstimateUTF16Bytes(value)
		for k, v := range m.values {
			if k != key {
				used += EstimateUTF16Bytes(v)
			}
		}
		if used > m.Quota {
			return ErrQuotaExceeded
		}
	}

	m.values[key] = value
	return nil
}

// Remove implements Slot
func (m *MemorySlot) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
