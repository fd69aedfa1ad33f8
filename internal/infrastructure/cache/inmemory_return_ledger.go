package cache

import (
	"context"
	"sync"
	"time"

	"github.com/memoriascard/backend/internal/domain/payment"
)

type ledgerEntry struct {
	outcome   []byte
	done      bool
	expiresAt time.Time
}

// InMemoryReturnLedger implements payment.ReturnLedger using an in-memory map.
// State is not shared across process instances.
type InMemoryReturnLedger struct {
	mu        sync.Mutex
	entries   map[string]ledgerEntry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReturnLedger creates a ledger and starts a background goroutine
// that drops expired entries
func NewInMemoryReturnLedger() *InMemoryReturnLedger {
	l := &InMemoryReturnLedger{
		entries:  make(map[string]ledgerEntry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Claim reserves key unless a live entry exists
func (l *InMemoryReturnLedger) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[key]; ok && l.now().Before(e.expiresAt) {
		return false, nil
	}
	l.entries[key] = ledgerEntry{expiresAt: l.now().Add(ttl)}
	return true, nil
}

// Complete stores the outcome
func (l *InMemoryReturnLedger) Complete(_ context.Context, key string, outcome []byte, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[key] = ledgerEntry{
		outcome:   append([]byte(nil), outcome...),
		done:      true,
		expiresAt: l.now().Add(ttl),
	}
	return nil
}

// Outcome returns the stored outcome of a live completed entry
func (l *InMemoryReturnLedger) Outcome(_ context.Context, key string) ([]byte, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || !e.done || !l.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return append([]byte(nil), e.outcome...), true, nil
}

// Release deletes the key
func (l *InMemoryReturnLedger) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (l *InMemoryReturnLedger) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopChan)
		l.wg.Wait()
	})
	return nil
}

// Size returns the number of entries, expired ones included
func (l *InMemoryReturnLedger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *InMemoryReturnLedger) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *InMemoryReturnLedger) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, e := range l.entries {
		if !now.Before(e.expiresAt) {
			delete(l.entries, key)
		}
	}
}

var _ payment.ReturnLedger = (*InMemoryReturnLedger)(nil)
