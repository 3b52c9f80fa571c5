package session

import (
	"sync"

	"github.com/stayhaven/edge/internal/apierr"
)

// Store is the client-local replica medium. Implementations must treat an
// unavailable medium as a soft condition: reads answer absent, writes fail
// with apierr.ErrStorageUnavailable and the caller swallows it.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string)
}

// MemoryStore is the in-process replica used by a long-lived execution
// context. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// unavailableStore stands in when no storage medium exists in the current
// execution context. Every read is absent, every write fails softly.
type unavailableStore struct{}

func (unavailableStore) Get(string) (string, bool) { return "", false }
func (unavailableStore) Set(string, string) error  { return apierr.ErrStorageUnavailable }
func (unavailableStore) Delete(string)             {}
