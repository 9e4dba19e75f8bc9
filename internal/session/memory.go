package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// MemoryStore keeps records in process. Expired entries are dropped lazily on
// access and by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore returns a store whose entries expire ttl after their last
// write. A non-positive ttl disables expiry.
func NewMemoryStore(ttl time.Duration, options ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Load(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(id)
	if !ok {
		return Record{}, ErrNotFound
	}
	return entry.rec.clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = memoryEntry{rec: rec.clone(), expiresAt: s.expiry()}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn UpdateFunc) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(id)
	if !ok {
		return Record{}, ErrNotFound
	}
	rec := entry.rec.clone()
	if err := fn(&rec); err != nil {
		return entry.rec.clone(), err
	}
	s.entries[id] = memoryEntry{rec: rec.clone(), expiresAt: s.expiry()}
	return rec, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for id, entry := range s.entries {
		if s.expired(entry, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	now := s.now()
	for _, entry := range s.entries {
		if !s.expired(entry, now) {
			n++
		}
	}
	return n
}

// lookup must be called with mu held.
func (s *MemoryStore) lookup(id string) (memoryEntry, bool) {
	entry, ok := s.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if s.expired(entry, s.now()) {
		delete(s.entries, id)
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *MemoryStore) expiry() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.ttl)
}

func (s *MemoryStore) expired(entry memoryEntry, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)
}
