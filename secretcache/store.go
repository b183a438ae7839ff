package secretcache

import (
	"sync"

	"github.com/evergreen-ci/cachette"
)

// Store is a concurrency-safe mapping from secret alias to cached entry. An
// entry is only ever written by a successful fetch, so every entry in the
// store was valid at some point. Entries are installed wholesale and never
// mutated in place, so it is safe to keep reading an entry after the lock is
// released.
type Store struct {
	mu      sync.RWMutex
	entries map[string]cachette.Entry
}

// NewStore returns a new empty store.
func NewStore() *Store {
	return &Store{
		entries: map[string]cachette.Entry{},
	}
}

// Get returns the entry cached for the given alias. The second return value
// is false if there is no entry for the alias.
func (s *Store) Get(alias string) (cachette.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[alias]
	return e, ok
}

// Put atomically replaces the entry cached for the given alias.
func (s *Store) Put(alias string, e cachette.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[alias] = e
}

// Delete removes the entry cached for the given alias, if any.
func (s *Store) Delete(alias string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, alias)
}

// Clear removes all cached entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = map[string]cachette.Entry{}
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Entries returns a point-in-time copy of all cached entries. The copy is
// safe to iterate while concurrent writers proceed, but offers no
// cross-entry consistency with respect to an in-flight refresh cycle.
func (s *Store) Entries() map[string]cachette.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]cachette.Entry, len(s.entries))
	for alias, e := range s.entries {
		snapshot[alias] = e
	}
	return snapshot
}
