package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/comunifi/droprelay/pkg/relay"
)

type entry struct {
	value      []byte
	lastAccess time.Time
}

// MemoryStore is the single process store. Entries that were not accessed
// for longer than ttl are removed by the sweeper; a ttl of 0 keeps them for
// the lifetime of the process.
type MemoryStore struct {
	entries map[string]*entry
	ttl     time.Duration
	mu      sync.Mutex

	now    func() time.Time
	stopCh chan struct{}
	once   sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
}

func (s *MemoryStore) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastAccess) > s.ttl
}

func (s *MemoryStore) Create(ctx context.Context, key string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if e, ok := s.entries[key]; ok && !s.expired(e, now) {
		return false, nil
	}

	s.entries[key] = &entry{value: value, lastAccess: now}

	return true, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	e, ok := s.entries[key]
	if !ok || s.expired(e, now) {
		return nil, relay.ErrNotFound
	}

	e.lastAccess = now

	return e.value, nil
}

func (s *MemoryStore) Replace(ctx context.Context, key string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	e, ok := s.entries[key]
	if !ok || s.expired(e, now) {
		return false, nil
	}

	e.value = value
	e.lastAccess = now

	return true, nil
}

// Len returns the number of entries currently held, expired or not
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Sweep removes every expired entry and returns how many were removed
func (s *MemoryStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0

	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
			removed++
		}
	}

	return removed
}

// StartSweeper periodically evicts expired entries until Close is called
func (s *MemoryStore) StartSweeper(interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Default().Printf("evicted %d idle rooms", n)
				}
			case <-s.stopCh:
				return
			}
		}
	}()
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() {
		close(s.stopCh)
	})

	return nil
}
