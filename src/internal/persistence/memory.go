package persistence

import (
	"sync"
	"time"
)

// MemoryStore is an in-process backend used in tests and anywhere no
// real persistence is wanted.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]memoryEntry
}

type memoryEntry struct {
	value   string
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Set(name, value string, opts Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = memoryEntry{value: value, expires: opts.Expires}
	return nil
}

func (s *MemoryStore) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.values[name]
	if !ok {
		return "", false
	}
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		return "", false
	}
	return normalize(entry.value)
}

func (s *MemoryStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
	return nil
}
