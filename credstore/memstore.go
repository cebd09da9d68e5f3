package credstore

import (
	"context"
	"sync"
)

var _ Store = &MemStore{}

// MemStore is an in-memory Store. Entries live until explicit deletion or
// process exit, which matches a browser-session cookie. It is also the store
// of choice in tests.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]record
	secure  bool
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		entries: make(map[string]record),
		secure:  true,
	}
}

func (s *MemStore) Save(_ context.Context, key, value string, opts ...Attribute) {
	rec := newRecord(value, s.secure, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = rec
}

func (s *MemStore) Read(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.entries[key]
	if !ok {
		return "", false
	}

	return rec.Value, true
}

func (s *MemStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *MemStore) DeleteAll(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]record)
}
