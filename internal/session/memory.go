package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/mines/internal/minesweeper"
)

type memoryEntry struct {
	// mu guards session, deleted and lastUsed
	mu       sync.RWMutex
	session  *Session
	deleted  bool
	lastUsed time.Time
}

// MemoryStore keeps sessions in process memory. Sessions unused for longer than the TTL
// are dropped.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	// entriesMutex guards entries, not the entries themselves
	entries      map[string]*memoryEntry
	entriesMutex sync.Mutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStore) Create(_ context.Context, board *minesweeper.Board) (string, error) {
	id := uuid.New().String()

	entry := &memoryEntry{
		session:  &Session{ID: id, Board: board},
		lastUsed: s.now(),
	}

	s.entriesMutex.Lock()
	defer s.entriesMutex.Unlock()

	s.pruneLocked()
	s.entries[id] = entry

	return id, nil
}

// pruneLocked removes expired entries. It assumes entriesMutex is locked.
func (s *MemoryStore) pruneLocked() {
	deadline := s.now().Add(-s.ttl)

	for id, entry := range s.entries {
		if !entry.mu.TryLock() {
			// in use, so not expired
			continue
		}
		if entry.lastUsed.Before(deadline) {
			entry.deleted = true
			delete(s.entries, id)
		}
		entry.mu.Unlock()
	}
}

func (s *MemoryStore) lookup(id string) (*memoryEntry, error) {
	s.entriesMutex.Lock()
	defer s.entriesMutex.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entry, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*Session) error) error {
	entry, err := s.lookup(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.deleted || entry.lastUsed.Before(s.now().Add(-s.ttl)) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	entry.lastUsed = s.now()
	return fn(entry.session)
}

func (s *MemoryStore) View(_ context.Context, id string, fn func(*Session) error) error {
	entry, err := s.lookup(id)
	if err != nil {
		return err
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()

	if entry.deleted || entry.lastUsed.Before(s.now().Add(-s.ttl)) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return fn(entry.session)
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.entriesMutex.Lock()
	entry, ok := s.entries[id]
	delete(s.entries, id)
	s.entriesMutex.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	entry.mu.Lock()
	entry.deleted = true
	entry.mu.Unlock()

	return nil
}

// Len returns the number of stored sessions, expired ones included until they are pruned.
func (s *MemoryStore) Len() int {
	s.entriesMutex.Lock()
	defer s.entriesMutex.Unlock()

	return len(s.entries)
}
