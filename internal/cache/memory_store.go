package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kavi/kavi-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// DefaultCleanupInterval is how often MemoryStore sweeps expired entries
const DefaultCleanupInterval = time.Minute

// Entry is a stored payload. Entries are replaced, never mutated.
type Entry struct {
	Key        string
	Payload    []byte
	InsertedAt time.Time
	TTL        time.Duration
}

// Expired reports whether the entry is past its TTL at now
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.InsertedAt.Add(e.TTL))
}

// MemoryStore is a process-local Store driven by an injectable clock
type MemoryStore struct {
	entries map[string]*Entry
	mu      sync.RWMutex
	clock   util.Clock
	stopCh  chan struct{}
	stopped sync.Once
}

// NewMemoryStore creates a MemoryStore. When cleanupInterval is positive a
// background goroutine removes expired entries until Stop is called.
func NewMemoryStore(clock util.Clock, cleanupInterval time.Duration) *MemoryStore {
	if clock == nil {
		clock = util.SystemClock{}
	}
	s := &MemoryStore{
		entries: make(map[string]*Entry),
		clock:   clock,
		stopCh:  make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.cleanup(cleanupInterval)
	}
	return s
}

// Get implements Store
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok || entry.Expired(s.clock.Now()) {
		return nil, false, nil
	}
	return entry.Payload, true, nil
}

// Set implements Store
func (s *MemoryStore) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &Entry{
		Key:        key,
		Payload:    data,
		InsertedAt: s.clock.Now(),
		TTL:        ttl,
	}
	return nil
}

// Delete implements Store
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes expired entries and returns how many were dropped
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	removed := 0
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				log.Debug().Int("removed", removed).Msg("Swept expired cache entries")
			}
		case <-s.stopCh:
			return
		}
	}
}

// Stop ends the cleanup goroutine
func (s *MemoryStore) Stop() {
	s.stopped.Do(func() { close(s.stopCh) })
}
