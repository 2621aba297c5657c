package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// MemoryStore is the in-process cache tier: a mutex-guarded map with
// per-entry TTLs and a background janitor that sweeps expired entries.
// Readers only ever observe fully written entries; set and delete are
// atomic per key.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	janitorStop chan struct{}
	janitorOnce sync.Once
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryStore creates a MemoryStore and starts its janitor.
// Parameters:
//   - cleanupInterval: sweep period for expired entries; <= 0 defaults to
//     one minute.
// Returns:
//   - *MemoryStore: running store; call Close when done.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	s := &MemoryStore{
		entries:     make(map[string]memoryEntry),
		janitorStop: make(chan struct{}),
	}
	go s.janitor(cleanupInterval)
	return s
}

// Get returns the payload for key if present and not expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.payload, true, nil
}

// Set stores payload under key with the given TTL.
func (s *MemoryStore) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = memoryEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// DeleteMatching removes every entry whose key matches the glob pattern and
// returns how many were removed.
func (s *MemoryStore) DeleteMatching(_ context.Context, pattern string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		ok, err := path.Match(pattern, key)
		if err != nil {
			return removed, err
		}
		if ok {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of live (possibly expired, not yet swept) entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the janitor goroutine.
func (s *MemoryStore) Close() {
	s.janitorOnce.Do(func() { close(s.janitorStop) })
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.janitorStop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
